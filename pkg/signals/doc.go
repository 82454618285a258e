// Package signals provides the named startup events of Porch.
//
// There are two signals:
//
//   - configuration-loaded: emitted once the configuration has been loaded
//   - application-configured: emitted once the application has been configured
//
// A Bus is an ordinary value. Whoever needs to react to a signal receives
// the bus explicitly and connects a receiver to it; there is no
// process-wide registry.
//
//	bus := signals.NewBus[*app.Application]()
//	bus.Connect(signals.NameApplicationConfigured, database.InitApp)
//	err := bus.Send(ctx, signals.NameApplicationConfigured, application)
package signals
