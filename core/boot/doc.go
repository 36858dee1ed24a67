// Package boot drives an application hosted by an embedded web server.
//
// A Boot is created with a WebServer adapter, tuned with its setters and then
// either run as a whole:
//
//	b, err := boot.New(fiberserver.New(logger, features), boot.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := b.WithPort(8081); err != nil {
//	    return err
//	}
//	return b.Run(ctx)
//
// or step by step with Configure, Start, Await and Stop, which is what tests do.
//
// # Lifecycle
//
// A Boot moves through Created, Configured, Started and Stopped. Settings can only
// change while Created. A failed Configure or Start stops the web server exactly
// once and leaves the Boot Stopped. Stop is idempotent once started.
package boot
