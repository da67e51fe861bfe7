// Package logger builds log/slog loggers with environment defaults and
// context-aware attributes.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "sebo"),
//	    logger.WithContextExtractors(requestid.LogExtractor),
//	)
//	log.InfoContext(ctx, "book created", logger.BookID(id), logger.Email(owner))
//
// Attribute helpers that touch personal data (Email, CPF) mask the value
// before it reaches the handler.
package logger
