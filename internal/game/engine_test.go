package game

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/closergame/countryquiz/internal/catalog"
)

// seqRand replays a fixed sequence, reduced modulo n.
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func square(x, y float64) orb.MultiPolygon {
	return orb.MultiPolygon{orb.Polygon{orb.Ring{
		{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y},
	}}}
}

func testCatalog(t *testing.T, distances map[[2]string]float64, names ...string) *catalog.Catalog {
	t.Helper()

	codes := make(map[string]string)
	shapes := make(map[string]orb.MultiPolygon)
	for i, name := range names {
		codes[name] = string(rune('a'+i)) + string(rune('a'+i))
		shapes[name] = square(float64(3*i), 0)
	}

	cat, err := catalog.New(distances, codes, shapes)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return cat
}

// fakeScores is an in-memory ScoreStore with the gateway's conditional
// write semantics.
type fakeScores struct {
	best  map[string]int
	nicks map[string]string
	lb    map[string]Entry
}

func newFakeScores() *fakeScores {
	return &fakeScores{
		best:  make(map[string]int),
		nicks: make(map[string]string),
		lb:    make(map[string]Entry),
	}
}

func (f *fakeScores) Best(_ context.Context, playerID string) (int, error) {
	return f.best[playerID], nil
}

func (f *fakeScores) RaiseIfHigher(_ context.Context, playerID string, score int) error {
	if score > f.best[playerID] {
		f.best[playerID] = score
	}
	return nil
}

func (f *fakeScores) Nickname(_ context.Context, playerID string) (string, error) {
	return f.nicks[playerID], nil
}

func (f *fakeScores) UpsertIfNotLower(_ context.Context, playerID, nickname string, score int) error {
	if e, ok := f.lb[playerID]; ok && score < e.Score {
		return nil
	}
	f.lb[playerID] = Entry{Nickname: nickname, Score: score}
	f.nicks[playerID] = nickname
	return nil
}

func (f *fakeScores) Top(_ context.Context, n int) ([]Entry, error) {
	out := []Entry{}
	for _, e := range f.lb {
		out = append(out, e)
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// abcCatalog is the reference scenario: A-B 500 km, A-C 2000 km,
// B-C 1800 km.
func abcCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return testCatalog(t, map[[2]string]float64{
		{"A", "B"}: 500,
		{"A", "C"}: 2000,
		{"B", "C"}: 1800,
	}, "A", "B", "C")
}

func newTestEngine(t *testing.T, cat *catalog.Catalog, scores ScoreStore) *Engine {
	t.Helper()
	// Always pick the first candidate, so base A and ordered targets.
	return NewEngine(cat, scores, &seqRand{vals: []int{0}}, 5)
}

func TestRequestRoundReplayIdempotent(t *testing.T) {
	engine := newTestEngine(t, abcCatalog(t), newFakeScores())
	s := NewSession("p1")

	first, err := engine.RequestRound(context.Background(), s)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := engine.RequestRound(context.Background(), s)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}

	if first.Round != second.Round {
		t.Errorf("refresh changed the round: %v -> %v", first.Round, second.Round)
	}
	if len(first.PrefetchCodes) != len(second.PrefetchCodes) {
		t.Fatalf("refresh changed the hint: %v -> %v", first.PrefetchCodes, second.PrefetchCodes)
	}
	for i := range first.PrefetchCodes {
		if first.PrefetchCodes[i] != second.PrefetchCodes[i] {
			t.Errorf("refresh changed the hint codes: %v -> %v", first.PrefetchCodes, second.PrefetchCodes)
		}
	}
}

func TestRequestRoundValidity(t *testing.T) {
	engine := newTestEngine(t, abcCatalog(t), newFakeScores())
	s := NewSession("p1")

	res, err := engine.RequestRound(context.Background(), s)
	if err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	r := res.Round
	if r.Base == r.Target1 || r.Base == r.Target2 || r.Target1 == r.Target2 {
		t.Errorf("round countries not distinct: %v", r)
	}
}

func TestEndToEndScenario(t *testing.T) {
	cat := abcCatalog(t)
	scores := newFakeScores()
	engine := newTestEngine(t, cat, scores)
	s := NewSession("p1")
	ctx := context.Background()

	res, err := engine.RequestRound(ctx, s)
	if err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	if res.Round.Base != "A" {
		t.Fatalf("expected base A, got %q", res.Round.Base)
	}
	targets := map[string]bool{res.Round.Target1: true, res.Round.Target2: true}
	if !targets["B"] || !targets["C"] {
		t.Fatalf("expected targets {B, C}, got %v", res.Round)
	}

	// B (500 km) is closer to A than C (2000 km).
	guess, err := engine.SubmitGuess(ctx, s, "A", "B", "C")
	if err != nil {
		t.Fatalf("submitting guess: %v", err)
	}
	if !guess.Correct {
		t.Error("expected correct guess")
	}
	if guess.Score != 1 {
		t.Errorf("expected score 1, got %d", guess.Score)
	}
	if !guess.NewBest || guess.Best != 1 {
		t.Errorf("expected new best 1, got best=%d newBest=%v", guess.Best, guess.NewBest)
	}

	// The chain continues from B, via the precomputed hint.
	next, err := engine.RequestRound(ctx, s)
	if err != nil {
		t.Fatalf("requesting next round: %v", err)
	}
	if next.Round.Base != "B" {
		t.Errorf("expected next base B (the closer target), got %q", next.Round.Base)
	}
	if next.Score != 1 {
		t.Errorf("expected carried score 1, got %d", next.Score)
	}

	// Wrong guess: C (1800 km) is farther from B than A (500 km).
	over, err := engine.SubmitGuess(ctx, s, "B", "C", "A")
	if err != nil {
		t.Fatalf("submitting losing guess: %v", err)
	}
	if over.Correct {
		t.Error("expected incorrect guess")
	}
	if !over.GameOver || over.FinalScore != 1 {
		t.Errorf("expected game over with final score 1, got %+v", over)
	}
	if !over.PromptNickname {
		t.Error("expected nickname prompt for a best-tying final score")
	}
	if over.MapRound != (Round{Base: "B", Target1: "C", Target2: "A"}) {
		t.Errorf("unexpected map round: %v", over.MapRound)
	}

	// Score persisted as the personal best.
	if best := scores.best["p1"]; best != 1 {
		t.Errorf("expected stored best 1, got %d", best)
	}
}

func TestGuessTieCreditsPlayer(t *testing.T) {
	cat := testCatalog(t, map[[2]string]float64{
		{"A", "B"}: 700,
		{"A", "C"}: 700,
		{"B", "C"}: 900,
	}, "A", "B", "C")
	engine := newTestEngine(t, cat, newFakeScores())
	s := NewSession("p1")
	ctx := context.Background()

	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	res, err := engine.SubmitGuess(ctx, s, "A", "C", "B")
	if err != nil {
		t.Fatalf("submitting guess: %v", err)
	}
	if !res.Correct {
		t.Error("equal distances must credit the player")
	}
}

func TestScoreMonotonicity(t *testing.T) {
	engine := newTestEngine(t, abcCatalog(t), newFakeScores())
	s := NewSession("p1")
	ctx := context.Background()

	want := 0
	for i := 0; i < 5; i++ {
		res, err := engine.RequestRound(ctx, s)
		if err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		r := res.Round
		// Always pick the closer target.
		d1, _ := engine.cat.Distance(r.Base, r.Target1)
		d2, _ := engine.cat.Distance(r.Base, r.Target2)
		chosen, other := r.Target1, r.Target2
		if d2 < d1 {
			chosen, other = r.Target2, r.Target1
		}

		guess, err := engine.SubmitGuess(ctx, s, r.Base, chosen, other)
		if err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		want++
		if guess.Score != want {
			t.Fatalf("score after %d correct guesses: got %d, want %d", i+1, guess.Score, want)
		}
	}
}

func TestRoundMismatchResetsSession(t *testing.T) {
	engine := newTestEngine(t, abcCatalog(t), newFakeScores())
	s := NewSession("p1")
	ctx := context.Background()

	// Build up a score first.
	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, s, "A", "B", "C"); err != nil {
		t.Fatalf("submitting guess: %v", err)
	}
	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}

	// Guess against a base that was never served.
	_, err := engine.SubmitGuess(ctx, s, "C", "A", "B")
	if err != ErrRoundMismatch {
		t.Fatalf("expected ErrRoundMismatch, got %v", err)
	}

	res, err := engine.RequestRound(ctx, s)
	if err != nil {
		t.Fatalf("requesting round after reset: %v", err)
	}
	if res.Score != 0 {
		t.Errorf("expected score reset to 0, got %d", res.Score)
	}
}

func TestGuessWithoutRoundIsMismatch(t *testing.T) {
	engine := newTestEngine(t, abcCatalog(t), newFakeScores())
	s := NewSession("p1")

	_, err := engine.SubmitGuess(context.Background(), s, "A", "B", "C")
	if err != ErrRoundMismatch {
		t.Fatalf("expected ErrRoundMismatch, got %v", err)
	}
}

func TestNicknamePromptBoundaries(t *testing.T) {
	ctx := context.Background()

	// Final score 0: no prompt.
	engine := newTestEngine(t, abcCatalog(t), newFakeScores())
	s := NewSession("p1")
	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	res, err := engine.SubmitGuess(ctx, s, "A", "C", "B")
	if err != nil {
		t.Fatalf("submitting guess: %v", err)
	}
	if !res.GameOver || res.FinalScore != 0 {
		t.Fatalf("expected game over at 0, got %+v", res)
	}
	if res.PromptNickname {
		t.Error("final score 0 must not prompt for a nickname")
	}

	// Final score equal to the stored best: prompt (allows refreshing a
	// same-value entry).
	scores := newFakeScores()
	scores.best["p2"] = 1
	engine = newTestEngine(t, abcCatalog(t), scores)
	s = NewSession("p2")
	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, s, "A", "B", "C"); err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	res, err = engine.SubmitGuess(ctx, s, "B", "C", "A")
	if err != nil {
		t.Fatalf("losing guess: %v", err)
	}
	if res.FinalScore != 1 {
		t.Fatalf("expected final score 1, got %d", res.FinalScore)
	}
	if !res.PromptNickname {
		t.Error("final score tying the best must prompt")
	}
}

func TestSubmitNickname(t *testing.T) {
	scores := newFakeScores()
	scores.nicks["p1"] = "old-name"
	engine := newTestEngine(t, abcCatalog(t), scores)
	s := NewSession("p1")
	ctx := context.Background()

	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, s, "A", "B", "C"); err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	res, err := engine.SubmitGuess(ctx, s, "B", "C", "A")
	if err != nil {
		t.Fatalf("losing guess: %v", err)
	}
	if res.ExistingNickname != "old-name" {
		t.Errorf("expected existing nickname pre-fill, got %q", res.ExistingNickname)
	}

	top, err := engine.SubmitNickname(ctx, s, "new name")
	if err != nil {
		t.Fatalf("submitting nickname: %v", err)
	}
	if len(top) != 1 || top[0].Nickname != "new name" || top[0].Score != 1 {
		t.Errorf("unexpected leaderboard: %v", top)
	}

	// The pending score was consumed.
	if _, err := engine.SubmitNickname(ctx, s, "again"); err != ErrNoPendingScore {
		t.Errorf("expected ErrNoPendingScore, got %v", err)
	}
}

func TestSubmitNicknameInvalidClearsPendingScore(t *testing.T) {
	engine := newTestEngine(t, abcCatalog(t), newFakeScores())
	s := NewSession("p1")
	ctx := context.Background()

	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, s, "A", "B", "C"); err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if _, err := engine.RequestRound(ctx, s); err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, s, "B", "C", "A"); err != nil {
		t.Fatalf("losing guess: %v", err)
	}

	var invalid *InvalidNicknameError
	if _, err := engine.SubmitNickname(ctx, s, "a"); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidNicknameError, got %v", err)
	}
	if _, err := engine.SubmitNickname(ctx, s, "ab"); err != ErrNoPendingScore {
		t.Errorf("pending score must be cleared even on rejection, got %v", err)
	}
}

func TestRequestRoundDatasetExhausted(t *testing.T) {
	// A has a distance only to B, so with base forced to A no two targets
	// remain.
	cat := testCatalog(t, map[[2]string]float64{
		{"A", "B"}: 500,
		{"B", "C"}: 1800,
	}, "A", "B", "C")
	engine := newTestEngine(t, cat, newFakeScores())
	s := NewSession("p1")

	res, err := engine.RequestRound(context.Background(), s)
	if err != nil {
		t.Fatalf("requesting round: %v", err)
	}
	if !res.GameOver {
		t.Fatalf("expected terminal game over, got %+v", res)
	}
}
