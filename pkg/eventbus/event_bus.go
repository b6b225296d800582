package eventbus

import (
	stderrors "errors"
	"reflect"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
)

type Subscriber struct {
	id      uint64
	Handler any
}

// EventBus dispatches published values to every subscribed function whose
// parameter list accepts them.
type EventBus interface {
	Publish(args ...any)
	PublishE(args ...any) error
	// Subscribe registers handler and returns a func that removes it.
	Subscribe(handler any) (unsubscribe func())
	Clear()
	SubscribersCount() int
}

var (
	ErrNoSubscribers        = errors.New("no matching subscribers")
	ErrInvalidHandlerReturn = errors.New("invalid handler return signature")
)

type publisherImpl struct {
	log *logrus.Logger

	mu          sync.RWMutex
	nextID      uint64
	subscribers []Subscriber
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisherImpl{log: log}
}

func MatchSignature(handler any, args []any) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func {
		return false
	}
	if t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		paramType := t.In(i)
		if arg == nil {
			if paramType.Kind() != reflect.Interface && paramType.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		if !reflect.TypeOf(arg).AssignableTo(paramType) {
			return false
		}
	}
	return true
}

func callArgs(handler reflect.Type, args []any) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(handler.In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}
	return in
}

func (p *publisherImpl) matching(args []any) []Subscriber {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []Subscriber
	for _, s := range p.subscribers {
		if MatchSignature(s.Handler, args) {
			out = append(out, s)
		}
	}
	return out
}

// Publish calls every matching handler. A panicking handler is logged and
// does not stop the others.
func (p *publisherImpl) Publish(args ...any) {
	subs := p.matching(args)
	if len(subs) == 0 {
		if p.log != nil {
			p.log.Warnf("eventbus.Publish: no matching subscribers for event with args: %v", args)
		}
		return
	}
	for _, s := range subs {
		v := reflect.ValueOf(s.Handler)
		func() {
			defer func() {
				if r := recover(); r != nil && p.log != nil {
					p.log.Errorf("eventbus: handler %s panicked with args %v: %v", v.Type(), args, r)
				}
			}()
			v.Call(callArgs(v.Type(), args))
		}()
	}
}

// PublishE is Publish for handlers that may return an error. Handler errors
// and panics are joined into the result.
func (p *publisherImpl) PublishE(args ...any) error {
	subs := p.matching(args)
	if len(subs) == 0 {
		return ErrNoSubscribers
	}
	errorType := reflect.TypeOf((*error)(nil)).Elem()
	var errs []error
	for _, s := range subs {
		v := reflect.ValueOf(s.Handler)
		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, errors.Errorf("eventbus: handler %s panicked: %v", v.Type(), r))
				}
			}()
			out := v.Call(callArgs(v.Type(), args))
			switch {
			case len(out) == 0:
			case len(out) != 1 || out[0].Type() != errorType:
				errs = append(errs, errors.Wrapf(ErrInvalidHandlerReturn, "handler %s", v.Type()))
			case !out[0].IsNil():
				errs = append(errs, out[0].Interface().(error))
			}
		}()
	}
	return stderrors.Join(errs...)
}

func (p *publisherImpl) Subscribe(handler any) func() {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func {
		panic("handler must be a function")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	p.subscribers = append(p.subscribers, Subscriber{id: id, Handler: handler})
	return func() { p.unsubscribe(id) }
}

func (p *publisherImpl) unsubscribe(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subscribers {
		if s.id == id {
			p.subscribers = append(p.subscribers[:i:i], p.subscribers[i+1:]...)
			return
		}
	}
}

func (p *publisherImpl) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = nil
}

func (p *publisherImpl) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}
