// Package sl содержит мелкие помощники для структурированного
// логирования через slog.
package sl

import "log/slog"

// Err оборачивает ошибку в атрибут с ключом "error", чтобы записи об
// ошибках во всех пакетах сервиса выглядели одинаково:
//
//	log.Error("failed to read session", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
