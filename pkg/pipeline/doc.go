/*
Package pipeline implements the sorting-center worker, the system's core
processing unit (spec §4.4). One Worker owns one center's input stream and
applies five stages, in order, to every event other than the end-of-stream
sentinel:

	S1 stream-cut hinting (hour-rollover detection hook, no-op persistence)
	S2 package-attributes recording + late-delivery detection
	S3 public-tracking recording
	S4 next-expected-event index update
	S5 time-driven delayed-package detection, with a cross-worker clock-sync
	   barrier so one fast worker can't declare another center's packages
	   delayed before that center has caught up

Four independent Workers, one per sorting center, coordinate exclusively
through a shared coordstore.Store and kvtable.Store — there is no direct
channel between them.
*/
package pipeline
