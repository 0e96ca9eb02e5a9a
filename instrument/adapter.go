// Package instrument реализует сеанс с анализатором спектра поверх таблицы
// команд YAK: разрешение команды по модели, выполнение глагола и разбор ответа.
package instrument

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/dispatch"
	"github.com/iwtcode/yakAdapter/models"
	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
	"github.com/iwtcode/yakAdapter/transport"
	"github.com/sirupsen/logrus"
)

// UnknownModel - модель до успешного опроса *IDN?.
const UnknownModel = "UNKNOWN"

// MessageSink получает короткие сообщения для оператора.
type MessageSink func(msg string)

// Adapter связывает транспорт прибора, реестр команд и диспетчер.
// Adapter не сериализует вызовы: при конкурентном доступе транспорт
// должен быть обернут в transport.NewLocked.
type Adapter struct {
	transport   transport.Transport
	registry    *commands.Registry
	dispatcher  *dispatch.Dispatcher
	logger      logrus.FieldLogger
	sink        MessageSink
	autoRefresh bool

	mu       sync.RWMutex
	model    string
	profile  Profile
	identity *models.InstrumentIdentity
}

// Option настраивает Adapter.
type Option func(*Adapter)

// WithModel задает модель без опроса прибора.
func WithModel(model string) Option {
	return func(a *Adapter) {
		if model = strings.TrimSpace(model); model != "" {
			a.model = model
			a.profile = GetModelProfile(model)
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithMessageSink(sink MessageSink) Option {
	return func(a *Adapter) { a.sink = sink }
}

// WithAutoRefresh включает проверку файла таблицы перед каждой командой.
func WithAutoRefresh(enabled bool) Option {
	return func(a *Adapter) { a.autoRefresh = enabled }
}

// NewAdapter создает сеанс. Модель остается UNKNOWN до Identify или WithModel.
func NewAdapter(t transport.Transport, registry *commands.Registry, opts ...Option) *Adapter {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Adapter{
		transport:   t,
		registry:    registry,
		dispatcher:  dispatch.New(),
		logger:      discard,
		autoRefresh: true,
		model:       UnknownModel,
		profile:     GetModelProfile(""),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model возвращает текущую модель прибора.
func (a *Adapter) Model() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.model
}

// SetModel меняет модель, по которой разрешаются команды.
func (a *Adapter) SetModel(model string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.model = strings.TrimSpace(model)
	if a.model == "" {
		a.model = UnknownModel
	}
	a.profile = GetModelProfile(a.model)
}

// Profile возвращает характеристики текущей модели.
func (a *Adapter) Profile() Profile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.profile
}

// Identity возвращает результат последнего Identify или nil.
func (a *Adapter) Identity() *models.InstrumentIdentity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.identity
}

func (a *Adapter) Registry() *commands.Registry { return a.registry }

// Close закрывает транспорт.
func (a *Adapter) Close() error {
	if a.transport == nil {
		return nil
	}
	return a.transport.Close()
}

func (a *Adapter) notify(format string, args ...interface{}) {
	if a.sink != nil {
		a.sink(fmt.Sprintf(format, args...))
	}
}

// resolve находит запись для текущей модели, предварительно проверив
// изменение файла таблицы.
func (a *Adapter) resolve(commandType string, action commands.ActionType) (commands.Entry, error) {
	model := a.Model()
	if a.registry == nil {
		return commands.Entry{}, &yakerrors.CommandError{
			Kind: yakerrors.KindInternal, CommandType: commandType, Action: action.String(), Model: model,
			Err: fmt.Errorf("command registry is not configured"),
		}
	}
	if a.autoRefresh && a.registry.Path() != "" {
		if err := a.registry.Refresh(); err != nil {
			a.logger.WithError(err).Warn("command table refresh failed, using previous table")
		}
	}

	entry, ok := a.registry.Resolve(commandType, action, model)
	if !ok {
		return commands.Entry{}, &yakerrors.CommandError{
			Kind: yakerrors.KindResolution, CommandType: commandType, Action: action.String(), Model: model,
		}
	}
	return entry, nil
}

// run разрешает и выполняет команду.
func (a *Adapter) run(ctx context.Context, action commands.ActionType, commandType string, p dispatch.Params) (commands.Entry, dispatch.Result, error) {
	fields := logrus.Fields{
		"command_type": commandType,
		"action":       action.String(),
		"model":        a.Model(),
	}

	entry, err := a.resolve(commandType, action)
	if err != nil {
		return entry, dispatch.Result{}, a.fail(err, fields)
	}

	res, err := a.dispatcher.Dispatch(ctx, a.transport, entry, p)
	fields["command"] = res.Command
	if err != nil {
		return entry, res, a.fail(yakerrors.WithContext(err, commandType, action.String(), a.Model()), fields)
	}

	a.logger.WithFields(fields).Debug("command completed")
	return entry, res, nil
}

func (a *Adapter) fail(err error, fields logrus.Fields) error {
	entry := a.logger.WithFields(fields).WithError(err)
	if yakerrors.KindOf(err) == yakerrors.KindInternal {
		entry.Error("command failed")
	} else {
		entry.Warn("command failed")
	}
	a.notify("%v", err)
	return err
}

func (a *Adapter) contractError(commandType string, action commands.ActionType, err error) error {
	return a.fail(&yakerrors.CommandError{
		Kind: yakerrors.KindContract, CommandType: commandType, Action: action.String(), Model: a.Model(), Err: err,
	}, logrus.Fields{"command_type": commandType, "action": action.String()})
}

func (a *Adapter) parseError(commandType string, action commands.ActionType, command string, err error) error {
	return a.fail(&yakerrors.CommandError{
		Kind: yakerrors.KindParse, CommandType: commandType, Action: action.String(), Model: a.Model(),
		Command: command, Err: err,
	}, logrus.Fields{"command_type": commandType, "action": action.String(), "command": command})
}

// Get выполняет запрос и возвращает строку ответа. Если для команды нет
// строки GET, но есть NAB, выполняется NAB и возвращается его сырой ответ.
func (a *Adapter) Get(ctx context.Context, commandType string) (string, error) {
	if _, err := a.resolve(commandType, commands.ActionGet); yakerrors.KindOf(err) == yakerrors.KindResolution {
		if _, nabErr := a.resolve(commandType, commands.ActionNab); nabErr == nil {
			_, res, err := a.run(ctx, commands.ActionNab, commandType, dispatch.Params{})
			return res.Raw, err
		}
	}
	_, res, err := a.run(ctx, commands.ActionGet, commandType, dispatch.Params{})
	return res.Raw, err
}

// Set записывает значение. Числа с нулевой дробной частью передаются как целые.
func (a *Adapter) Set(ctx context.Context, commandType string, value interface{}) error {
	s, err := dispatch.FormatValue(value)
	if err != nil {
		return a.contractError(commandType, commands.ActionSet, err)
	}
	_, _, err = a.run(ctx, commands.ActionSet, commandType, dispatch.Params{Value: s})
	return err
}

// Do выполняет команду без ответа с необязательным аргументом.
func (a *Adapter) Do(ctx context.Context, commandType string, arg ...interface{}) error {
	if len(arg) > 1 {
		return a.contractError(commandType, commands.ActionDo, fmt.Errorf("DO takes at most one argument, got %d", len(arg)))
	}
	var p dispatch.Params
	if len(arg) == 1 {
		s, err := dispatch.FormatValue(arg[0])
		if err != nil {
			return a.contractError(commandType, commands.ActionDo, err)
		}
		p.Arg = s
	}
	_, _, err := a.run(ctx, commands.ActionDo, commandType, p)
	return err
}

// Nab выполняет пакетный запрос и возвращает непустые поля ответа.
func (a *Adapter) Nab(ctx context.Context, commandType string) ([]string, error) {
	_, res, err := a.run(ctx, commands.ActionNab, commandType, dispatch.Params{})
	return res.Fields, err
}

// Beg подставляет значения в шаблон, выполняет запрос и возвращает строку ответа.
func (a *Adapter) Beg(ctx context.Context, commandType string, values ...interface{}) (string, error) {
	_, res, err := a.beg(ctx, commandType, values)
	return res.Raw, err
}

func (a *Adapter) beg(ctx context.Context, commandType string, values []interface{}) (commands.Entry, dispatch.Result, error) {
	formatted, err := dispatch.FormatValues(values)
	if err != nil {
		return commands.Entry{}, dispatch.Result{}, a.contractError(commandType, commands.ActionBeg, err)
	}
	return a.run(ctx, commands.ActionBeg, commandType, dispatch.Params{Values: formatted})
}

// Rig подставляет значения в шаблон и записывает команду.
func (a *Adapter) Rig(ctx context.Context, commandType string, values ...interface{}) error {
	formatted, err := dispatch.FormatValues(values)
	if err != nil {
		return a.contractError(commandType, commands.ActionRig, err)
	}
	_, _, err = a.run(ctx, commands.ActionRig, commandType, dispatch.Params{Values: formatted})
	return err
}

// BegFields выполняет BEG и раскладывает ответ по именам полей. Порядок полей
// берется из колонки ResponseFields записи, а при ее отсутствии из
// DefaultFieldOrder для типа команды.
func (a *Adapter) BegFields(ctx context.Context, commandType string, values ...interface{}) (map[string]string, error) {
	entry, res, err := a.beg(ctx, commandType, values)
	if err != nil {
		return nil, err
	}
	return a.mapFields(entry, commands.ActionBeg, res.Command, res.Raw, dispatch.SplitFields(res.Raw))
}

// NabFields выполняет NAB и раскладывает поля ответа по именам так же, как BegFields.
func (a *Adapter) NabFields(ctx context.Context, commandType string) (map[string]string, error) {
	entry, res, err := a.run(ctx, commands.ActionNab, commandType, dispatch.Params{})
	if err != nil {
		return nil, err
	}
	return a.mapFields(entry, commands.ActionNab, res.Command, res.Raw, res.Fields)
}

func (a *Adapter) mapFields(entry commands.Entry, action commands.ActionType, command, raw string, fields []string) (map[string]string, error) {
	order := FieldOrder(entry)
	if len(order) == 0 {
		return nil, a.parseError(entry.CommandType, action, command, fmt.Errorf("no response field order defined"))
	}
	mapped, err := dispatch.MapFields(fields, order)
	if err != nil {
		return nil, a.parseError(entry.CommandType, action, command, fmt.Errorf("response %q: %w", raw, err))
	}
	return mapped, nil
}

// Execute выполняет произвольную команду с текстовыми аргументами.
// Для SET и DO используется не более одного аргумента.
func (a *Adapter) Execute(ctx context.Context, action commands.ActionType, commandType string, args ...string) (dispatch.Result, error) {
	var p dispatch.Params
	switch action {
	case commands.ActionSet:
		if len(args) != 1 {
			return dispatch.Result{}, a.contractError(commandType, action, fmt.Errorf("SET takes exactly one value, got %d", len(args)))
		}
		p.Value = args[0]
	case commands.ActionDo:
		if len(args) > 1 {
			return dispatch.Result{}, a.contractError(commandType, action, fmt.Errorf("DO takes at most one argument, got %d", len(args)))
		}
		if len(args) == 1 {
			p.Arg = args[0]
		}
	case commands.ActionBeg, commands.ActionRig:
		p.Values = args
	default:
		if len(args) > 0 {
			return dispatch.Result{}, a.contractError(commandType, action, fmt.Errorf("%s takes no arguments", action))
		}
	}
	_, res, err := a.run(ctx, action, commandType, p)
	return res, err
}
