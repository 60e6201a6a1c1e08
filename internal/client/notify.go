package client

import "go.uber.org/zap"

type ToastVariant string

const (
	VariantDefault     ToastVariant = "default"
	VariantDestructive ToastVariant = "destructive"
)

// Toast is a user-facing notification.
type Toast struct {
	Title       string
	Description string
	Variant     ToastVariant
}

type Notifier interface {
	Notify(Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }

// LogNotifier writes toasts to a zap logger. It is the default when no
// notifier is configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(t Toast) {
	fields := []zap.Field{zap.String("title", t.Title), zap.String("description", t.Description)}
	if t.Variant == VariantDestructive {
		n.Logger.Warn("notification", fields...)
		return
	}
	n.Logger.Info("notification", fields...)
}

func errorToast(description string) Toast {
	return Toast{Title: "Error", Description: description, Variant: VariantDestructive}
}
