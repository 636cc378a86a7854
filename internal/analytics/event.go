// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package analytics

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/vibe/internal/recommend"
)

// anonymousClient keys events from callers that send no client ID.
const anonymousClient = "anonymous"

// Params are the semantic request parameters of an event.
type Params struct {
	Diversity       float64            `json:"diversity"`
	MaxArtists      int                `json:"max_artists"`
	GenreWeight     float64            `json:"genre_weight"`
	TracksPerArtist int                `json:"tracks_per_artist"`
	PopularityBias  float64            `json:"popularity_bias"`
	VibeStrength    float64            `json:"vibe_strength"`
	Vibe            map[string]float64 `json:"vibe,omitempty"`
}

// Event records one served recommendation.
type Event struct {
	ID              string        `json:"id"`
	RecordedAt      time.Time     `json:"recorded_at"`
	ClientID        string        `json:"client_id"`
	SeedArtists     []string      `json:"seed_artists"`
	SeedTracks      []string      `json:"seed_tracks"`
	ExcludeArtists  []string      `json:"exclude_artists"`
	Params          Params        `json:"params"`
	ReturnedArtists []string      `json:"returned_artists"`
	HasMore         bool          `json:"has_more"`
	Latency         time.Duration `json:"latency"`
}

// NewEvent builds an event from a served request and its result.
func NewEvent(clientID string, req *recommend.Request, res *recommend.Result, latency time.Duration) *Event {
	if clientID == "" {
		clientID = anonymousClient
	}
	e := &Event{
		ID:             uuid.New().String(),
		RecordedAt:     time.Now().UTC(),
		ClientID:       clientID,
		SeedArtists:    copyStrings(req.SeedArtists),
		SeedTracks:     copyStrings(req.SeedTrackIDs),
		ExcludeArtists: copyStrings(req.ExcludeArtists),
		Params: Params{
			Diversity:       req.Diversity,
			MaxArtists:      req.MaxArtists,
			GenreWeight:     req.GenreWeight,
			TracksPerArtist: req.TracksPerArtist,
			PopularityBias:  req.PopularityBias,
			VibeStrength:    req.VibeStrength,
			Vibe:            req.Vibe,
		},
		ReturnedArtists: []string{},
		Latency:         latency,
	}
	if res != nil {
		for _, a := range res.Artists {
			e.ReturnedArtists = append(e.ReturnedArtists, a.Artist)
		}
		e.HasMore = res.Metadata.HasMoreCandidates
	}
	return e
}

// signaturePayload is what makes two events the same query. Seed order
// does not matter.
type signaturePayload struct {
	SeedArtists    []string `json:"a"`
	SeedTracks     []string `json:"t"`
	ExcludeArtists []string `json:"x"`
	Params         Params   `json:"p"`
}

// Signature hashes the semantic content of the query.
func (e *Event) Signature() string {
	payload := signaturePayload{
		SeedArtists:    sortedCopy(e.SeedArtists),
		SeedTracks:     sortedCopy(e.SeedTracks),
		ExcludeArtists: sortedCopy(e.ExcludeArtists),
		Params:         e.Params,
	}
	// Map keys are emitted sorted, so the encoding is stable.
	data, err := json.Marshal(payload)
	if err != nil {
		return e.ID
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}

// DedupeKey identifies repeats of the same query from the same client.
func (e *Event) DedupeKey() string {
	return e.ClientID + "|" + e.Signature()
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func sortedCopy(s []string) []string {
	out := copyStrings(s)
	sort.Strings(out)
	return out
}
