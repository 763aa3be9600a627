package gamechart

// Observer receives chart notifications. Callbacks run synchronously on the
// goroutine draining the chart; they may call SendEvent or SetVariable,
// which queue work for the same drain.
type Observer interface {
	EventReceived(event string)
	StateEntered(state State)
	StateExited(state State)
	TransitionTaken(t *Transition, from State)
}

// ObserverFuncs adapts optional functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnEvent      func(event string)
	OnEnter      func(state State)
	OnExit       func(state State)
	OnTransition func(t *Transition, from State)
}

func (o ObserverFuncs) EventReceived(event string) {
	if o.OnEvent != nil {
		o.OnEvent(event)
	}
}

func (o ObserverFuncs) StateEntered(state State) {
	if o.OnEnter != nil {
		o.OnEnter(state)
	}
}

func (o ObserverFuncs) StateExited(state State) {
	if o.OnExit != nil {
		o.OnExit(state)
	}
}

func (o ObserverFuncs) TransitionTaken(t *Transition, from State) {
	if o.OnTransition != nil {
		o.OnTransition(t, from)
	}
}

type subscriber struct {
	id  uint64
	obs Observer
}
