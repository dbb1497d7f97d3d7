// Package logging sets up logrus for the admin and carries request-scoped
// loggers through contexts.
//
//	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
//	    return err
//	}
//	logging.FromContext(r.Context()).WithField("table", table).Info("record created")
package logging
