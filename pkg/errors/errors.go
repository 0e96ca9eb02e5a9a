package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	InternalServerError = "internal server error"
	BadRequest          = "bad request"
	NotFound            = "not_found"
	BadGateway          = "instrument unavailable"

	InvalidDataCode         = 402
	InternalServerErrorCode = 500
	NotFoundErrorCode       = 404
)

// AppError представляет собой стандартизированную структуру ошибки для API.
type AppError struct {
	Code         int    `json:"code"`    // HTTP статус код
	Message      string `json:"message"` // Сообщение для клиента
	Err          error  `json:"-"`       // Внутренняя ошибка, не для клиента
	IsUserFacing bool   `json:"-"`       // Флаг, указывающий, можно ли показывать `Err`
}

func (a *AppError) Error() string {
	if a == nil {
		return ""
	}
	if a.Err != nil {
		return fmt.Sprintf("%s (code: %d): %v", a.Message, a.Code, a.Err)
	}
	return fmt.Sprintf("%s (code: %d)", a.Message, a.Code)
}

func (a *AppError) Unwrap() error { return a.Err }

// NewAppError создает новый экземпляр AppError.
func NewAppError(httpCode int, message string, err error, isUserFacing bool) *AppError {
	return &AppError{
		Code:         httpCode,
		Message:      message,
		Err:          err,
		IsUserFacing: isUserFacing,
	}
}

var (
	ErrNotFound     = errors.New("command not found")
	ErrTransport    = errors.New("transport failure")
	ErrParse        = errors.New("unexpected response")
	ErrContract     = errors.New("invalid call")
	ErrInternal     = errors.New("internal error")
	ErrNotConnected = errors.New("instrument not connected")
	ErrNoResponse   = errors.New("no response from instrument")
)

// Kind классифицирует отказ при выполнении команды.
type Kind int

const (
	KindUnknown Kind = iota
	KindResolution
	KindTransport
	KindParse
	KindContract
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindResolution:
		return "resolution"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindContract:
		return "contract"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindResolution:
		return ErrNotFound
	case KindTransport:
		return ErrTransport
	case KindParse:
		return ErrParse
	case KindContract:
		return ErrContract
	default:
		return ErrInternal
	}
}

// CommandError описывает отказ конкретной команды с контекстом,
// достаточным для оператора: тип команды, действие, модель и строка на проводе.
type CommandError struct {
	Kind        Kind
	CommandType string
	Action      string
	Model       string
	Command     string
	Err         error
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}

	subject := e.CommandType
	if subject == "" {
		subject = e.Command
	}
	if e.Action != "" {
		subject = fmt.Sprintf("%s (%s)", subject, e.Action)
	}
	model := e.Model
	if model == "" {
		model = "unknown"
	}

	if e.Kind == KindResolution {
		return fmt.Sprintf("no command defined for %s on model %s", subject, model)
	}

	msg := fmt.Sprintf("%s for %s on model %s", e.Kind.sentinel(), subject, model)
	if e.Command != "" && e.Command != subject {
		msg += fmt.Sprintf(" [%s]", e.Command)
	}
	if e.Err != nil && e.Err != e.Kind.sentinel() {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Is сопоставляет ошибку с sentinel-значением её вида.
func (e *CommandError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// New создает CommandError указанного вида без контекста команды.
func New(kind Kind, command string, err error) *CommandError {
	return &CommandError{Kind: kind, Command: command, Err: err}
}

// Newf как New, но с форматированной причиной.
func Newf(kind Kind, command string, format string, args ...interface{}) *CommandError {
	return New(kind, command, fmt.Errorf(format, args...))
}

// WithContext дополняет CommandError контекстом вызова. Ошибки другого типа
// оборачиваются как внутренние.
func WithContext(err error, commandType, action, model string) error {
	if err == nil {
		return nil
	}
	var ce *CommandError
	if !errors.As(err, &ce) {
		ce = &CommandError{Kind: KindInternal, Err: err}
	} else {
		copied := *ce
		ce = &copied
	}
	if ce.CommandType == "" {
		ce.CommandType = commandType
	}
	if ce.Action == "" {
		ce.Action = action
	}
	if ce.Model == "" {
		ce.Model = model
	}
	return ce
}

// KindOf возвращает вид ошибки или KindUnknown.
func KindOf(err error) Kind {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// StatusFor подбирает HTTP код для ошибки выполнения команды.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindResolution:
		return http.StatusNotFound
	case KindContract:
		return http.StatusBadRequest
	case KindTransport, KindParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
