// Package clock задаёт источник времени для доменной логики.
//
// Весь код, который сравнивает "сейчас" со сроками жизни токенов
// (подпись, проверка liveness, janitor), получает Clock через
// конструктор. Это позволяет детерминированно тестировать истечение
// сроков без time.Sleep.
package clock

import (
	"sync"
	"time"
)

// Clock возвращает текущее время.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System — часы на базе time.Now.
func System() Clock { return systemClock{} }

// Fake — управляемые часы для тестов.
// Потокобезопасны: Advance может вызываться параллельно с Now.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake создаёт часы, остановленные на start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now возвращает текущее "замороженное" время.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// Advance сдвигает часы вперёд на d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

// Set выставляет часы в t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = t
}
