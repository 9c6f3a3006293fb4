/*
Package log provides structured logging for parceltrack using zerolog.

A single global zerolog.Logger is initialized once via Init and never
mutated after startup. Call-site code gets a context logger off it through
WithComponent, WithSortingCenter, or WithPackageID rather than writing to
the global directly; package-level Info/Debug/Warn/Error/Fatal helpers exist
for cases with no useful context to attach (cobra command wiring, top-level
startup/shutdown messages).

Pipeline code (pkg/pipeline) does not read the global Logger: each Worker
takes its zerolog.Logger through its Logger field, built once at startup
with WithSortingCenter, so pipeline stages stay testable without coupling
to process-wide logging state.

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true, Output: os.Stdout})

	centerLog := log.WithSortingCenter("A")
	centerLog.Info().Str("package_id", "42").Msg("lost package reported")
*/
package log
