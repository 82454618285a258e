// Package db provides database connectivity for Porch.
//
// Connect opens a GORM connection for a postgres:// or sqlite:// URL, with
// GORM's logger routed through the application logrus logger.
//
// Database is the façade the rest of the application holds on to. It binds
// itself to the application when the application-configured signal is sent,
// and offers the form-merge helpers used to apply edits to model entries:
//
//	database := db.New()
//	database.Register(application.Bus)
//	_ = application.Configure(ctx)
//
//	changed, err := database.UpdateFromForm(ctx, account, db.Values{"name": "Jane"})
package db
