package session

import (
	"sync"
	"testing"
	"time"

	"github.com/kalambet/scout/internal/requirements"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestResetKeepsIDAndHistory(t *testing.T) {
	now := fixedClock()()
	s := New(now)
	id := s.ID
	s.Append("user", "hi", now)
	s.Stage = StageRecommendation
	s.Profile = requirements.Profile{Roles: []string{"designer"}}
	s.Context["selected_package_id"] = "tech_startup_pack"

	s.Reset(now)

	if s.ID != id {
		t.Errorf("id changed on reset: %s != %s", s.ID, id)
	}
	if s.Stage != StageGreeting {
		t.Errorf("stage = %s, want greeting", s.Stage)
	}
	if !s.Profile.Empty() {
		t.Errorf("profile not cleared: %+v", s.Profile)
	}
	if len(s.Context) != 0 {
		t.Errorf("context not cleared: %v", s.Context)
	}
	last := s.History[len(s.History)-1]
	if last.Role != "system" || last.Content != "Conversation reset" {
		t.Errorf("missing reset marker, got %+v", last)
	}
}

func TestManagerDoUnknownSession(t *testing.T) {
	m := NewManager(fixedClock())
	if err := m.Do("nope", func(*Session) error { return nil }); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestManagerSerializesTurns(t *testing.T) {
	m := NewManager(nil)
	s := m.Create()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(s.ID, func(sess *Session) error {
				counter++
				sess.Append("user", "turn", time.Now())
				return nil
			})
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if got := len(s.History); got != 50 {
		t.Errorf("history length = %d, want 50", got)
	}
}

func TestManagerListOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	i := 0
	m := NewManager(func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Second)
	})
	first := m.Create()
	second := m.Create()

	got := m.List()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("want most recently updated first, got %s then %s", got[0].ID, got[1].ID)
	}
}
