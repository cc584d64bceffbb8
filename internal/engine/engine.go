// Package engine adapts third-party card-data providers to one uniform
// query/search/render contract. Each provider implements Source; Engine
// adds the shared behavior: a time-boxed catalog cache, filtering, random
// selection, and art fetching with per-item degradation.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/playverse/cardbot/internal/card"
	"github.com/playverse/cardbot/internal/render"
)

// ErrUnsupported signals an optional capability (voice) a provider does
// not implement. Callers surface it as "not supported", not as a failure.
var ErrUnsupported = errors.New("capability not supported by this engine")

// ErrNoCandidates signals a random pick over an empty or too-small set.
var ErrNoCandidates = errors.New("not enough candidate cards")

// DefaultCacheTTL is the catalog validity window.
const DefaultCacheTTL = 24 * time.Hour

// Source is one card-data provider: it fetches and converts the full
// catalog and knows where puzzle crops may land in its art.
type Source interface {
	Name() string
	Label() string
	Fetch(ctx context.Context, c *Client) ([]card.Card, error)
	CropWindow() render.Window
}

// VoiceSource is the optional voice capability.
type VoiceSource interface {
	Voices(ctx context.Context, c *Client, cd card.Card) ([]card.Voice, error)
}

// Engine wraps a Source with the shared catalog cache and operations.
type Engine struct {
	src    Source
	client *Client
	ttl    time.Duration
	logger *slog.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	catalog []card.Card
	expires time.Time
}

func New(src Source, client *Client, ttl time.Duration, logger *slog.Logger) *Engine {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Engine{
		src:    src,
		client: client,
		ttl:    ttl,
		logger: logger.With("engine", src.Name()),
	}
}

func (e *Engine) Name() string  { return e.src.Name() }
func (e *Engine) Label() string { return e.src.Label() }

// CropWindow exposes the provider-specific puzzle crop bounds.
func (e *Engine) CropWindow() render.Window { return e.src.CropWindow() }

// cachedCatalog returns the shared catalog slice. Callers must not mutate
// it; public methods hand out clones.
func (e *Engine) cachedCatalog(ctx context.Context) ([]card.Card, error) {
	e.mu.RLock()
	if e.catalog != nil && time.Now().Before(e.expires) {
		cards := e.catalog
		e.mu.RUnlock()
		return cards, nil
	}
	e.mu.RUnlock()

	// singleflight keeps concurrent callers on one provider fetch; the
	// others block here and share its result.
	v, err, _ := e.group.Do("catalog", func() (any, error) {
		e.mu.RLock()
		if e.catalog != nil && time.Now().Before(e.expires) {
			cards := e.catalog
			e.mu.RUnlock()
			return cards, nil
		}
		e.mu.RUnlock()

		start := time.Now()
		cards, err := e.src.Fetch(ctx, e.client)
		if err != nil {
			return nil, fmt.Errorf("fetching %s catalog: %w", e.src.Name(), err)
		}
		e.logger.Info("catalog refreshed", "cards", len(cards), "duration_ms", time.Since(start).Milliseconds())

		e.mu.Lock()
		e.catalog = cards
		e.expires = time.Now().Add(e.ttl)
		e.mu.Unlock()
		return cards, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]card.Card), nil
}

// Catalog returns a deep copy of the full card set.
func (e *Engine) Catalog(ctx context.Context) ([]card.Card, error) {
	cards, err := e.cachedCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return card.CloneAll(cards), nil
}

// Search applies filters as an AND-reduction over the catalog.
func (e *Engine) Search(ctx context.Context, filters []string) ([]card.Card, error) {
	cards, err := e.cachedCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return card.Search(cards, filters), nil
}

// CardByID finds one card by its provider-assigned id.
func (e *Engine) CardByID(ctx context.Context, id string) (card.Card, error) {
	cards, err := e.cachedCatalog(ctx)
	if err != nil {
		return card.Card{}, err
	}
	for _, c := range cards {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return card.Card{}, fmt.Errorf("card %q: %w", id, ErrNoCandidates)
}

// RandomCard picks uniformly from cards, or from the full catalog when
// cards is nil.
func (e *Engine) RandomCard(ctx context.Context, cards []card.Card) (card.Card, error) {
	if cards == nil {
		var err error
		cards, err = e.cachedCatalog(ctx)
		if err != nil {
			return card.Card{}, err
		}
	}
	if len(cards) == 0 {
		return card.Card{}, ErrNoCandidates
	}
	return cards[rand.IntN(len(cards))].Clone(), nil
}

// RandomCards samples n distinct cards.
func (e *Engine) RandomCards(ctx context.Context, n int, cards []card.Card) ([]card.Card, error) {
	if cards == nil {
		var err error
		cards, err = e.cachedCatalog(ctx)
		if err != nil {
			return nil, err
		}
	}
	if n > len(cards) {
		return nil, fmt.Errorf("want %d of %d cards: %w", n, len(cards), ErrNoCandidates)
	}
	idx := rand.Perm(len(cards))[:n]
	out := make([]card.Card, n)
	for i, j := range idx {
		out[i] = cards[j].Clone()
	}
	return out, nil
}

// CardImage fetches and decodes one card's art. This is the essential
// single fetch: failure aborts the caller's command.
func (e *Engine) CardImage(ctx context.Context, c card.Card) (image.Image, error) {
	data, err := e.client.GetBytes(ctx, c.Image, "")
	if err != nil {
		return nil, fmt.Errorf("fetching art for %s: %w", c.ID, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding art for %s: %w", c.ID, err)
	}
	return img, nil
}

// CardImages fetches art for a batch. Individual failures degrade to the
// placeholder so one dead URL cannot sink a lookup rendering.
func (e *Engine) CardImages(ctx context.Context, cards []card.Card) []image.Image {
	images := make([]image.Image, len(cards))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, c := range cards {
		g.Go(func() error {
			img, err := e.CardImage(ctx, c)
			if err != nil {
				e.logger.Warn("art fetch failed, using placeholder", "card", c.ID, "error", err)
				img = render.Placeholder()
			}
			images[i] = img
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	return images
}

// Crop cuts the guessing-puzzle fragment out of card art.
func (e *Engine) Crop(img image.Image) (image.Image, error) {
	return render.Crop(img, e.src.CropWindow())
}

// Voices lists a card's voice lines, or ErrUnsupported when the provider
// has no voice capability.
func (e *Engine) Voices(ctx context.Context, c card.Card) ([]card.Voice, error) {
	vs, ok := e.src.(VoiceSource)
	if !ok {
		return nil, ErrUnsupported
	}
	return vs.Voices(ctx, e.client, c)
}

// Voice downloads one voice line's audio payload.
func (e *Engine) Voice(ctx context.Context, v card.Voice) ([]byte, error) {
	return e.client.GetBytes(ctx, v.URL, "")
}
