/*
Package kvtable implements the keyed record store spec §4.2 requires. Two
backends satisfy Store:

  - BoltStore: one bbolt file, one bucket per table, adapted from the
    teacher repo's storage.BoltStore (bucket-per-entity, JSON values,
    get/put/delete). Used by the CLI when --uri names a data directory, so
    package-attributes and package-events survive a process restart.
  - MemStore: a map-of-maps guarded by a mutex, used by tests and by the
    CLI when --uri is empty (the default).
*/
package kvtable
