// Package dispatch выполняет разрешенную команду таблицы одним из шести
// протоколов: GET, SET, DO, NAB, BEG, RIG.
package dispatch

import (
	"context"
	"strings"

	"github.com/iwtcode/yakAdapter/commands"
	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
	"github.com/iwtcode/yakAdapter/transport"
)

// Params - параметры вызова. Value используется SET, Arg - DO,
// Values - BEG и RIG.
type Params struct {
	Value  string
	Arg    string
	Values []string
}

// Result - итог выполнения команды.
type Result struct {
	// Command - строка, отправленная прибору.
	Command string `json:"command"`
	// Raw - строка ответа для запросов.
	Raw string `json:"raw,omitempty"`
	// Fields - поля ответа NAB.
	Fields []string `json:"fields,omitempty"`
}

type handlerFunc func(ctx context.Context, t transport.Transport, e commands.Entry, p Params) (Result, error)

// Dispatcher сопоставляет каждому действию его обработчик.
type Dispatcher struct {
	handlers map[commands.ActionType]handlerFunc
}

func New() *Dispatcher {
	return &Dispatcher{
		handlers: map[commands.ActionType]handlerFunc{
			commands.ActionGet: get,
			commands.ActionSet: set,
			commands.ActionDo:  do,
			commands.ActionNab: nab,
			commands.ActionBeg: beg,
			commands.ActionRig: rig,
		},
	}
}

// Supports сообщает, есть ли обработчик для действия.
func (d *Dispatcher) Supports(action commands.ActionType) bool {
	_, ok := d.handlers[action]
	return ok
}

// Dispatch выполняет запись e через транспорт t.
func (d *Dispatcher) Dispatch(ctx context.Context, t transport.Transport, e commands.Entry, p Params) (Result, error) {
	h, ok := d.handlers[e.Action]
	if !ok {
		return Result{}, yakerrors.Newf(yakerrors.KindInternal, e.Template, "no handler for action %s", e.Action)
	}
	if t == nil {
		return Result{}, yakerrors.New(yakerrors.KindTransport, e.Template, yakerrors.ErrNotConnected)
	}
	return h(ctx, t, e, p)
}

func write(ctx context.Context, t transport.Transport, command string) (Result, error) {
	if err := t.Write(ctx, command); err != nil {
		return Result{Command: command}, yakerrors.New(yakerrors.KindTransport, command, err)
	}
	return Result{Command: command}, nil
}

func query(ctx context.Context, t transport.Transport, command string) (Result, error) {
	resp, err := t.Query(ctx, command)
	if err != nil {
		return Result{Command: command}, yakerrors.New(yakerrors.KindTransport, command, err)
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return Result{Command: command}, yakerrors.New(yakerrors.KindTransport, command, yakerrors.ErrNoResponse)
	}
	return Result{Command: command, Raw: resp}, nil
}

func get(ctx context.Context, t transport.Transport, e commands.Entry, _ Params) (Result, error) {
	command := e.Template
	if strings.TrimSpace(e.Variable) == "?" && !strings.HasSuffix(command, "?") {
		command += "?"
	}
	return query(ctx, t, command)
}

func set(ctx context.Context, t transport.Transport, e commands.Entry, p Params) (Result, error) {
	value := strings.TrimSpace(p.Value)
	if value == "" {
		return Result{}, yakerrors.Newf(yakerrors.KindContract, e.Template, "SET requires a value")
	}
	return write(ctx, t, e.Template+" "+NormalizeNumber(value))
}

func do(ctx context.Context, t transport.Transport, e commands.Entry, p Params) (Result, error) {
	arg := strings.TrimSpace(p.Arg)
	if arg == "" {
		if v := strings.TrimSpace(e.Variable); v != "?" {
			arg = v
		}
	}
	command := e.Template
	if arg != "" {
		command += " " + arg
	}
	return write(ctx, t, command)
}

func nab(ctx context.Context, t transport.Transport, e commands.Entry, _ Params) (Result, error) {
	res, err := query(ctx, t, e.Template)
	if err != nil {
		return res, err
	}
	res.Fields = SplitFields(res.Raw)
	if len(res.Fields) == 0 {
		return res, yakerrors.New(yakerrors.KindTransport, e.Template, yakerrors.ErrNoResponse)
	}
	return res, nil
}

func beg(ctx context.Context, t transport.Transport, e commands.Entry, p Params) (Result, error) {
	command, err := Substitute(e.Template, p.Values)
	if err != nil {
		return Result{}, err
	}
	return query(ctx, t, command)
}

func rig(ctx context.Context, t transport.Transport, e commands.Entry, p Params) (Result, error) {
	command, err := Substitute(e.Template, p.Values)
	if err != nil {
		return Result{}, err
	}
	return write(ctx, t, command)
}
