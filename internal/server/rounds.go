package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"time"

	"github.com/playverse/cardbot/internal/card"
	"github.com/playverse/cardbot/internal/config"
	"github.com/playverse/cardbot/internal/engine"
	"github.com/playverse/cardbot/internal/game"
	"github.com/playverse/cardbot/internal/render"
)

var (
	// ErrBusy rejects a round start while the group is mid-round.
	ErrBusy = errors.New("a round is already in progress")

	// ErrEmptyResult signals that the filters matched no cards, or that the
	// drawn card had nothing to play.
	ErrEmptyResult = errors.New("no matching cards")

	// ErrNoRound rejects a guess when the group has no resolvable round.
	ErrNoRound = errors.New("no round in progress")
)

// Rounds orchestrates the guessing games: it owns the lifecycle from start
// through the timed reveal, and leaves per-group state to game.Sessions.
type Rounds struct {
	registry *engine.Registry
	groups   *config.Groups
	sessions *game.Sessions
	store    RoundStore
	broker   *Broker
	composer *render.Composer
	dataDir  string
	logger   *slog.Logger

	// after is the round timer; swapped out in tests.
	after func(d time.Duration) <-chan time.Time
}

func NewRounds(registry *engine.Registry, groups *config.Groups, sessions *game.Sessions,
	store RoundStore, broker *Broker, composer *render.Composer, dataDir string, logger *slog.Logger) *Rounds {
	return &Rounds{
		registry: registry,
		groups:   groups,
		sessions: sessions,
		store:    store,
		broker:   broker,
		composer: composer,
		dataDir:  dataDir,
		logger:   logger,
		after:    func(d time.Duration) <-chan time.Time { return time.After(d) },
	}
}

type GuessStart struct {
	Engine     string `json:"engine"`
	Candidates int    `json:"candidates"`
	TimeLimit  int    `json:"timeLimit"`
	Crop       string `json:"crop"`
}

// StartGuess begins an image-crop guessing round for the group.
func (ro *Rounds) StartGuess(ctx context.Context, gid string, filters []string) (GuessStart, error) {
	cfg, err := ro.groups.Feature(gid, config.FeatureGuess)
	if err != nil {
		return GuessStart{}, err
	}
	eng, err := ro.registry.Get(cfg.Engine)
	if err != nil {
		return GuessStart{}, err
	}

	gen, claimed := ro.sessions.TryStart(gid)
	if !claimed {
		return GuessStart{}, ErrBusy
	}
	started := time.Now()
	ok := false
	defer func() {
		if !ok {
			ro.sessions.Finish(gid)
		}
	}()

	cards, err := eng.Search(ctx, filters)
	if err != nil {
		return GuessStart{}, err
	}
	if len(cards) == 0 {
		return GuessStart{}, ErrEmptyResult
	}

	c, err := eng.RandomCard(ctx, cards)
	if err != nil {
		return GuessStart{}, err
	}

	img, err := eng.CardImage(ctx, c)
	if err != nil {
		return GuessStart{}, err
	}
	crop, err := eng.Crop(img)
	if err != nil {
		return GuessStart{}, err
	}

	reveal := gid + "_guess.png"
	if err := ro.savePNG(reveal, img); err != nil {
		return GuessStart{}, err
	}
	cropName := gid + "_guess_crop.png"
	if err := ro.savePNG(cropName, crop); err != nil {
		return GuessStart{}, err
	}

	pattern, err := card.NamePattern(c)
	if err != nil {
		return GuessStart{}, err
	}

	ro.sessions.SetData(gid, game.Answer{
		Names:    c.Names,
		Pattern:  pattern.String(),
		Artifact: artifactPath(reveal),
	})
	ro.closeLater(gid, gen, config.FeatureGuess, eng.Name(), cfg.TimeLimit, c, artifactPath(reveal), "", started)

	ok = true
	return GuessStart{
		Engine:     cfg.Engine,
		Candidates: len(cards),
		TimeLimit:  cfg.TimeLimit,
		Crop:       artifactPath(cropName),
	}, nil
}

type GuessCheck struct {
	Matched bool `json:"matched"`
	Won     bool `json:"won"`
}

// CheckGuess matches a participant's text against the pending answer. A
// correct guess claims the win immediately, but the round still closes
// only when its timer fires.
func (ro *Rounds) CheckGuess(gid string, participant int64, text string) (GuessCheck, error) {
	if ro.sessions.IsIdle(gid) {
		return GuessCheck{}, ErrNoRound
	}
	ans, set := ro.sessions.Data(gid)
	if !set {
		return GuessCheck{}, ErrNoRound
	}

	re, err := regexp.Compile(ans.Pattern)
	if err != nil {
		return GuessCheck{}, fmt.Errorf("compiling answer pattern: %w", err)
	}
	if !re.MatchString(text) {
		return GuessCheck{}, nil
	}

	won := ro.sessions.Win(gid, participant)
	if won {
		ro.broker.Publish(gid, RoundEvent{Type: "round_won", Winner: participant})
	}
	return GuessCheck{Matched: true, Won: won}, nil
}

type VoiceStart struct {
	Engine     string `json:"engine"`
	Candidates int    `json:"candidates"`
	TimeLimit  int    `json:"timeLimit"`
	Action     string `json:"action"`
	Audio      string `json:"audio"`
}

// StartVoice begins a voice-line guessing round for the group.
func (ro *Rounds) StartVoice(ctx context.Context, gid string, filters []string) (VoiceStart, error) {
	cfg, err := ro.groups.Feature(gid, config.FeatureVoice)
	if err != nil {
		return VoiceStart{}, err
	}
	eng, err := ro.registry.Get(cfg.Engine)
	if err != nil {
		return VoiceStart{}, err
	}

	gen, claimed := ro.sessions.TryStart(gid)
	if !claimed {
		return VoiceStart{}, ErrBusy
	}
	started := time.Now()
	ok := false
	defer func() {
		if !ok {
			ro.sessions.Finish(gid)
		}
	}()

	cards, err := eng.Search(ctx, filters)
	if err != nil {
		return VoiceStart{}, err
	}
	if len(cards) == 0 {
		return VoiceStart{}, ErrEmptyResult
	}

	c, err := eng.RandomCard(ctx, cards)
	if err != nil {
		return VoiceStart{}, err
	}

	voices, err := eng.Voices(ctx, c)
	if err != nil {
		return VoiceStart{}, err
	}
	if len(voices) == 0 {
		return VoiceStart{}, fmt.Errorf("card %s has no voice lines: %w", c.ID, ErrEmptyResult)
	}

	voice := voices[rand.IntN(len(voices))]
	audio, err := eng.Voice(ctx, voice)
	if err != nil {
		return VoiceStart{}, err
	}

	audioName := gid + "_voice" + audioExt(voice.URL)
	if err := ro.saveBlob(audioName, audio); err != nil {
		return VoiceStart{}, err
	}

	pattern, err := card.NamePattern(c)
	if err != nil {
		return VoiceStart{}, err
	}

	ro.sessions.SetData(gid, game.Answer{
		Names:    c.Names,
		Pattern:  pattern.String(),
		Artifact: artifactPath(audioName),
		Action:   voice.Action,
	})
	ro.closeLater(gid, gen, config.FeatureVoice, eng.Name(), cfg.TimeLimit, c, "", voice.Action, started)

	ok = true
	return VoiceStart{
		Engine:     cfg.Engine,
		Candidates: len(cards),
		TimeLimit:  cfg.TimeLimit,
		Action:     voice.Action,
		Audio:      artifactPath(audioName),
	}, nil
}

// Unlock force-finishes a stuck round.
func (ro *Rounds) Unlock(gid string) {
	ro.sessions.Finish(gid)
	ro.broker.Publish(gid, RoundEvent{Type: "round_unlocked"})
}

// Lookup searches and renders the matched cards as one info composite.
func (ro *Rounds) Lookup(ctx context.Context, gid string, filters []string) ([]byte, error) {
	cfg, err := ro.groups.Feature(gid, config.FeatureLookup)
	if err != nil {
		return nil, err
	}
	eng, err := ro.registry.Get(cfg.Engine)
	if err != nil {
		return nil, err
	}

	cards, err := eng.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrEmptyResult
	}
	if len(cards) > cfg.Info.CountMax {
		cards = cards[:cfg.Info.CountMax]
	}

	images := eng.CardImages(ctx, cards)
	img, err := ro.composer.Compose(cards, images, *cfg.Info)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding lookup image: %w", err)
	}
	return buf.Bytes(), nil
}

// closeLater arms the round timer. The timer always runs to completion: a
// win claimed mid-round is announced immediately by CheckGuess, but the
// reveal and the history row wait for the full time limit. Expire checks
// the round generation, so a timer orphaned by Unlock never closes a
// round started afterwards.
func (ro *Rounds) closeLater(gid string, gen uint64, feature, engineName string, timeLimit int, c card.Card, artifact, action string, started time.Time) {
	go func() {
		<-ro.after(time.Duration(timeLimit) * time.Second)

		winner, live := ro.sessions.Expire(gid, gen)
		if !live {
			return
		}

		ro.broker.Publish(gid, RoundEvent{
			Type:     "round_ended",
			Feature:  feature,
			Winner:   winner,
			CardID:   c.ID,
			CardName: c.Name(),
			Action:   action,
			Artifact: artifact,
		})

		err := ro.store.RecordRound(context.Background(), Round{
			GroupID:   gid,
			Feature:   feature,
			Engine:    engineName,
			CardID:    c.ID,
			CardName:  c.Name(),
			Winner:    winner,
			StartedAt: started,
			EndedAt:   time.Now(),
		})
		if err != nil {
			ro.logger.Error("recording round", "group", gid, "feature", feature, "error", err)
		}
	}()
}

func (ro *Rounds) savePNG(name string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return ro.saveBlob(name, buf.Bytes())
}

func (ro *Rounds) saveBlob(name string, data []byte) error {
	p := filepath.Join(ro.dataDir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", name, err)
	}
	return nil
}

func artifactPath(name string) string {
	return "/artifacts/" + name
}

func audioExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".mp3"
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return ".mp3"
}
