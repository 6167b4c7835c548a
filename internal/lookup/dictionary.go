// Package lookup resolves captured words to definitions through a
// pluggable provider.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Result is what a provider returns for a word.
type Result struct {
	Definitions []string
	Phonetic    string
	AudioURL    string
}

// Provider looks a word up in some dictionary backend.
type Provider interface {
	Lookup(ctx context.Context, word string) (*Result, error)
}

// DictionaryAPI implements Provider against the free dictionaryapi.dev
// service.
type DictionaryAPI struct {
	apiURL string
	http   *http.Client
}

// NewDictionaryAPI creates a client with the default endpoint.
func NewDictionaryAPI() *DictionaryAPI {
	return &DictionaryAPI{
		apiURL: "https://api.dictionaryapi.dev/api/v2/entries/en/",
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// apiEntry mirrors the parts of the dictionaryapi.dev response we use.
type apiEntry struct {
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text  string `json:"text"`
		Audio string `json:"audio"`
	} `json:"phonetics"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Lookup fetches definitions for a word. A word the service does not know
// returns an error; callers typically treat lookup failure as non-fatal.
func (c *DictionaryAPI) Lookup(ctx context.Context, word string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+url.PathEscape(word), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dictionary returned status %d for %q", resp.StatusCode, word)
	}

	var entries []apiEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries returned for %q", word)
	}

	result := &Result{Phonetic: entries[0].Phonetic}
	for _, p := range entries[0].Phonetics {
		if result.Phonetic == "" && p.Text != "" {
			result.Phonetic = p.Text
		}
		if result.AudioURL == "" && p.Audio != "" {
			result.AudioURL = p.Audio
		}
	}
	for _, m := range entries[0].Meanings {
		for _, d := range m.Definitions {
			result.Definitions = append(result.Definitions, d.Definition)
		}
	}
	return result, nil
}
