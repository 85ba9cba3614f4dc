package sprig

import "iter"

// actorStopped unwinds an actor body when the actor is stopped while
// suspended in Wait.
type actorStopped struct{}

// ActorContext is handed to an actor body. The body suspends itself with
// Wait and resumes on the next scene update.
type ActorContext struct {
	actor *Actor
	yield func(struct{}) bool
	dt    float64
}

// Actor runs a body as a coroutine driven by Scene.Update. Each update
// resumes the body until its next Wait.
type Actor struct {
	name  string
	ctx   *ActorContext
	next  func() (struct{}, bool)
	stop  func()
	steps int
	done  bool
}

// NewActor wraps body in an actor. It does not run until Scene.Start (or
// Step) resumes it.
func NewActor(name string, body func(ctx *ActorContext)) *Actor {
	a := &Actor{name: name}
	a.ctx = &ActorContext{actor: a}
	seq := func(yield func(struct{}) bool) {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(actorStopped); !ok {
					panic(r)
				}
			}
		}()
		a.ctx.yield = yield
		body(a.ctx)
	}
	a.next, a.stop = iter.Pull(seq)
	return a
}

func (a *Actor) Name() string { return a.name }

// Done reports whether the body has returned or the actor was stopped.
func (a *Actor) Done() bool { return a.done }

// Steps returns how many times the actor has been resumed.
func (a *Actor) Steps() int { return a.steps }

// Step resumes the body with dt seconds of elapsed time. Returns false once
// the body has finished.
func (a *Actor) Step(dt float64) bool {
	if a.done {
		return false
	}
	a.steps++
	a.ctx.dt = dt
	if _, ok := a.next(); !ok {
		a.done = true
	}
	return !a.done
}

// Stop abandons the body at its current Wait. Deferred calls in the body
// still run.
func (a *Actor) Stop() {
	if a.done {
		return
	}
	a.done = true
	a.stop()
}

// Actor returns the actor running this body.
func (c *ActorContext) Actor() *Actor { return c.actor }

// Wait suspends the body until the next update and returns that update's
// elapsed time in seconds.
func (c *ActorContext) Wait() float64 {
	if !c.yield(struct{}{}) {
		panic(actorStopped{})
	}
	return c.dt
}

// WaitFor suspends the body for at least the given number of seconds of
// update time and returns the time actually elapsed.
func (c *ActorContext) WaitFor(seconds float64) float64 {
	elapsed := 0.0
	for elapsed < seconds {
		elapsed += c.Wait()
	}
	return elapsed
}

// WaitUntil suspends the body until cond returns true.
func (c *ActorContext) WaitUntil(cond func() bool) {
	for !cond() {
		c.Wait()
	}
}
