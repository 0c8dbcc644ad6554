// Package errmsg maps failure contexts to user-facing messages and reports
// failures through an injected logger.
package errmsg

import "github.com/rs/zerolog"

// Context tags where a failure happened.
type Context int

// Known failure contexts. ContextDefault covers anything unlisted.
const (
	ContextDefault Context = iota
	ContextPhotoUpload
	ContextDataSave
	ContextExport
	ContextRender
	ContextConfig
)

// String returns the context tag.
func (c Context) String() string {
	switch c {
	case ContextPhotoUpload:
		return "photo-upload"
	case ContextDataSave:
		return "data-save"
	case ContextExport:
		return "export"
	case ContextRender:
		return "render"
	case ContextConfig:
		return "config"
	case ContextDefault:
		return "default"
	default:
		return "default"
	}
}

// Message returns the display string for c.
func Message(c Context) string {
	switch c {
	case ContextPhotoUpload:
		return "Image processing failed, please check the file format and size"
	case ContextDataSave:
		return "Saving data failed, please retry"
	case ContextExport:
		return "Export failed, please check the data is complete"
	case ContextRender:
		return "Some rows could not be drawn"
	case ContextConfig:
		return "Configuration is invalid, run 'virtlist config validate' for details"
	case ContextDefault:
		return defaultMessage
	default:
		return defaultMessage
	}
}

const defaultMessage = "Operation failed, please retry"

// Notifier shows a message to the user.
type Notifier func(message string)

// Handler logs failures and turns them into display messages.
type Handler struct {
	logger zerolog.Logger
	notify Notifier
}

// NewHandler creates a Handler. notify may be nil.
func NewHandler(logger zerolog.Logger, notify Notifier) *Handler {
	return &Handler{logger: logger, notify: notify}
}

// Handle logs err under c, notifies the user, and returns the display message.
// A nil err returns "" and does nothing.
func (h *Handler) Handle(err error, c Context) string {
	if err == nil {
		return ""
	}
	h.logger.Error().
		Err(err).
		Str("context", c.String()).
		Msgf("error in %s", c)

	msg := Message(c)
	if h.notify != nil {
		h.notify(msg)
	}
	return msg
}
