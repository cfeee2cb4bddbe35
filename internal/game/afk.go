package game

import (
	"fmt"
	"time"
)

// AFK supervision. Every scheduled check carries an immutable snapshot
// of the world taken when it was armed; at fire time the snapshot is
// compared against live state and the check acts, reschedules, or
// silently cancels itself. The prompt is compared by value: "is this
// still the same hand" survives dealer rotation and phase churn.

// afkCheck is the captured context for one scheduled check.
type afkCheck struct {
	phase   Phase
	prompt  string
	player  string
	attempt int
}

// armPlayChecks puts every available player on the clock for the new
// round. Callers hold g.mu.
func (g *Game) armPlayChecks() {
	for _, p := range g.avail {
		g.schedule(afkCheck{phase: PhasePlay, prompt: g.prompt.Text, player: p, attempt: 1})
	}
}

// armJudgeCheck puts the dealer on the clock. Callers hold g.mu.
func (g *Game) armJudgeCheck() {
	g.schedule(afkCheck{phase: PhaseJudging, prompt: g.prompt.Text, player: g.dealer, attempt: 1})
}

func (g *Game) schedule(check afkCheck) {
	interval := g.cfg.TimeAllowed / time.Duration(g.cfg.TimesToCheck)
	g.clock.AfterFunc(interval, func() {
		g.checkAFK(check)
	})
}

// checkAFK fires on the timer goroutine and re-validates everything
// under the lock, so a player action racing the timer always wins.
func (g *Game) checkAFK(check afkCheck) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if check.attempt < g.cfg.TimesToCheck && g.delinquent(check) {
		switch check.phase {
		case PhasePlay:
			g.msgr.Whisper(check.player, "Please play a card.")
		case PhaseJudging:
			g.msgr.Whisper(check.player, "Please pick a winner.")
		}
		check.attempt++
		g.schedule(check)
		return
	}

	if g.delinquent(check) {
		g.msgr.Announce(fmt.Sprintf("[*] %s has been kicked for taking too long.", check.player))
		g.logger.Info("kicking inactive player", "player", check.player, "phase", check.phase)
		g.removePlayer(check.player)
	}
}

// delinquent reports whether the checked player still owes an action
// for the same hand the check was armed for.
func (g *Game) delinquent(check afkCheck) bool {
	if check.phase != g.phase || check.prompt != g.prompt.Text {
		return false
	}
	if !g.roster.isSeated(check.player) {
		return false
	}

	switch check.phase {
	case PhasePlay:
		if check.player == g.dealer {
			return false
		}
		_, played := g.answers[check.player]
		return !played
	case PhaseJudging:
		return check.player == g.dealer
	}
	return false
}
