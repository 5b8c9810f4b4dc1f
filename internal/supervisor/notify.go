package supervisor

import "github.com/msyu/cambia-arena/internal/match"

// NotifyCompleted implements match.Supervisor. Called from a MatchWorker's
// own goroutine; it only ever enqueues onto the actor's mailbox, never
// touches the lobby/match maps directly.
func (s *Supervisor) NotifyCompleted(c match.Completed) {
	s.cmdCh <- gameCompletedMsg{gameId: c.GameId, status: c.Status}
}
