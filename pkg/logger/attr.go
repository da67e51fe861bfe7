package logger

import (
	"log/slog"
	"time"

	"github.com/livroelivro/sebo/pkg/sanitizer"
)

// Error records err under "error". Nil errors produce an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}

func BookID(id string) slog.Attr {
	return slog.String("book_id", id)
}

// Email logs a masked address.
func Email(email string) slog.Attr {
	return slog.String("email", sanitizer.MaskEmail(email))
}

// CPF logs a masked CPF, keeping only the check digits.
func CPF(cpf string) slog.Attr {
	return slog.String("cpf", sanitizer.MaskCPF(cpf))
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
