/*
Package simulator is the deterministic scan-event generator (spec §4.6).
Given a Config carrying a random seed, it follows the same generation rules
as Simulator.event_source() from the original source (its random draws come
from its own seeded generator, so the values differ): packages are intaken
across IntakeRunTimeMinutes, each follows a sorting-center-internal scanner
path (intake → weighing → pre-routing → routing → holding/output, plus a
receiving leg when the destination differs from the origin), and a subset of
packages are injected as lost or delayed partway through their lifecycle.

All randomness flows through one *rand.Rand per Simulator, so two Simulators
built from the same Config produce byte-identical event sequences.
*/
package simulator
