/*
Package eventstream provides the append-only, partition-ordered stream
abstraction spec §4.1 requires: create-if-absent, publish, and a
drain-aware iterator. MemStore is the in-process reference backend —
sufficient for running the whole four-center pipeline plus the trouble
reporter as goroutines sharing memory, and for every test in this module.

A production deployment would implement Store against a real durable log
(Kafka, Pravega, ...); that binding is explicitly out of scope here (spec
§1 Out of scope), so only the capability set is specified.
*/
package eventstream
