package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"qmtg/internal/card"
	"qmtg/internal/lang"
	"qmtg/internal/mtgset"
	"qmtg/internal/storage"
)

const backImageURI = "https://c2.scryfall.com/file/scryfall-errors/missing.jpg"

// Options configures an Agent. Host is the API host without a scheme;
// https is assumed unless the host itself carries an explicit http://
// prefix. CacheFile is where request and image metadata persist between
// runs, and FileDir is the directory downloaded images live in.
type Options struct {
	Host       string
	Pretty     bool
	CacheFile  string
	FileDir    string
	RateLimit  time.Duration
	CatalogTTL time.Duration
	Logger     *slog.Logger

	// BackImageURI overrides where the shared card back image downloads
	// from. Empty means the stock Scryfall location.
	BackImageURI string
}

// Agent makes calls to Scryfall, using the local cache wherever possible.
// All lookups go through the rate limiter so bursts of cache misses stay
// inside the API's request guidelines.
type Agent struct {
	client     *retryablehttp.Client
	limiter    *rate.Limiter
	baseURL    string
	pretty     bool
	cacheFile  string
	catalogTTL time.Duration
	backURI    string
	requests   *storage.PathCache
	files      *storage.FileCache
	logger     *slog.Logger

	now func() time.Time
}

// New creates an agent, loading any cache persisted by earlier runs. A
// cache file that cannot be read starts a fresh cache rather than failing.
func New(opts Options) (*Agent, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 200 * time.Millisecond
	}
	if opts.CatalogTTL <= 0 {
		opts.CatalogTTL = 7 * 24 * time.Hour
	}
	if opts.BackImageURI == "" {
		opts.BackImageURI = backImageURI
	}

	baseURL := opts.Host
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil

	a := &Agent{
		client:     client,
		limiter:    rate.NewLimiter(rate.Every(opts.RateLimit), 1),
		baseURL:    baseURL,
		pretty:     opts.Pretty,
		cacheFile:  opts.CacheFile,
		backURI:    opts.BackImageURI,
		catalogTTL: opts.CatalogTTL,
		logger:     logger,
		now:        time.Now,
	}

	requests := storage.NewPathCache()
	var filesTree *storage.PathCache
	sections, err := storage.LoadSnapshot(opts.CacheFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("could not load scryfall cache, starting fresh", "path", opts.CacheFile, "error", err)
		}
	} else {
		if r, ok := sections["requests"]; ok {
			requests = r
		}
		filesTree = sections["files"]
	}

	files, err := storage.NewFileCache(opts.FileDir, filesTree)
	if err != nil {
		return nil, err
	}
	a.requests = requests
	a.files = files
	return a, nil
}

func (a *Agent) saveCache() {
	if a.cacheFile == "" {
		return
	}
	sections := map[string]*storage.PathCache{
		"requests": a.requests,
		"files":    a.files.PathCache,
	}
	if err := storage.SaveSnapshot(a.cacheFile, sections); err != nil {
		a.logger.Warn("could not save scryfall cache", "path", a.cacheFile, "error", err)
	}
}

func (a *Agent) get(ctx context.Context, rawURL string) (int, []byte, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func (a *Agent) apiURL(path string, params url.Values) string {
	if a.pretty {
		params.Set("pretty", "true")
	}
	u := a.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// getJSON performs an API request and decodes the response object. An
// error status decodes into an APIError so callers can inspect it.
func (a *Agent) getJSON(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	status, body, err := a.get(ctx, a.apiURL(path, params))
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if jerr := json.Unmarshal(body, &m); jerr != nil && status < 400 {
		return nil, fmt.Errorf("decode scryfall response: %w", jerr)
	}
	if status >= 400 {
		return nil, ParseError(status, m)
	}
	return m, nil
}

// getBinary performs an API request expecting raw bytes. Error responses
// still come back as JSON and decode into an APIError.
func (a *Agent) getBinary(ctx context.Context, path string, params url.Values) ([]byte, error) {
	status, body, err := a.get(ctx, a.apiURL(path, params))
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		var m map[string]any
		_ = json.Unmarshal(body, &m)
		return nil, ParseError(status, m)
	}
	return body, nil
}

// CatalogNames lists the static catalogs the agent knows how to fetch.
var CatalogNames = []string{
	"creature-types",
	"planeswalker-types",
	"land-types",
	"artifact-types",
	"enchantment-types",
	"spell-types",
	"keyword-abilities",
	"keyword-actions",
}

// Catalog fetches a static catalog such as "creature-types". Results are
// cached until the catalog TTL elapses.
func (a *Agent) Catalog(ctx context.Context, catalogType string) ([]string, error) {
	cachepath := "/static/" + catalogType
	cached, hit, _ := a.requests.Get(cachepath, nil)
	if hit {
		if entry, ok := cached.(map[string]any); ok {
			if at, err := time.Parse(time.RFC3339, str(entry, "retrieval_time")); err == nil {
				if a.now().Sub(at) <= a.catalogTTL {
					return strList(entry["data"]), nil
				}
			}
		}
		a.logger.Debug("catalog cache entry expired", "path", cachepath)
		a.requests.Clear(cachepath)
	}
	a.logger.Debug("cache miss, querying scryfall", "path", cachepath)

	resp, err := a.getJSON(ctx, "/catalog/"+catalogType, url.Values{})
	if err != nil {
		return nil, err
	}
	entries := strList(resp["data"])
	a.requests.Set(cachepath, map[string]any{
		"retrieval_time": a.now().Format(time.RFC3339),
		"data":           anyList(entries),
	})
	a.saveCache()
	return entries, nil
}

// SearchCards finds cards matching the given name. With exact set, only
// precise name matches return. With a set code, results are limited to
// that set and include every printing in it. Search results shift as new
// cards release, so this call is never cached.
func (a *Agent) SearchCards(ctx context.Context, name string, exact bool, setCode string) ([]card.Card, error) {
	setCode = strings.ToLower(setCode)
	params := url.Values{}
	params.Set("q", buildSearchQuery(name, setCode, exact))
	if setCode != "" {
		params.Set("unique", "prints")
	} else {
		params.Set("unique", "cards")
	}
	params.Set("order", "set")
	params.Set("dir", "asc")

	resp, err := a.getJSON(ctx, "/cards/search", params)
	if err != nil {
		return nil, err
	}
	raw, ok := resp["data"].([]any)
	if !ok {
		return nil, fmt.Errorf("scryfall search response has no results list")
	}
	results := make([]card.Card, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			results = append(results, parseCard(m))
		}
	}
	return results, nil
}

// CardByName looks a card up by name. With fuzzy set, approximate matches
// are accepted. A set code limits the lookup to one set.
func (a *Agent) CardByName(ctx context.Context, name string, fuzzy bool, setCode string) (card.Card, error) {
	params := url.Values{}
	if fuzzy {
		params.Set("fuzzy", name)
	} else {
		params.Set("exact", name)
	}
	if setCode != "" {
		params.Set("set", strings.ToLower(setCode))
	}
	resp, err := a.getJSON(ctx, "/cards/named", params)
	if err != nil {
		return card.Card{}, err
	}
	return parseCard(resp), nil
}

// CardByID looks a card up by its Scryfall UUID. The cache holds an ID to
// set-and-number mapping, so a cached card never costs a request.
func (a *Agent) CardByID(ctx context.Context, sid uuid.UUID) (card.Card, error) {
	cachepath := "/id-map/cards/scryfall/" + sid.String()
	cached, hit, _ := a.requests.Get(cachepath, nil)
	if hit {
		if m, ok := cached.(map[string]any); ok {
			return a.CardByNum(ctx, str(m, "set"), str(m, "num"), str(m, "lang"))
		}
	}
	a.logger.Debug("cache miss, querying scryfall", "path", cachepath)

	resp, err := a.getJSON(ctx, "/cards/"+sid.String(), url.Values{})
	if err != nil {
		return card.Card{}, err
	}
	c := parseCard(resp)

	// The id-map entry only points at the real cache record, which is
	// indexed by set, number, and language.
	a.requests.Set(cardPath(c.Set, c.Number, c.Language), c.ToMap())
	a.requests.Set(cachepath, map[string]any{"set": c.Set, "num": c.Number, "lang": c.Language})
	a.saveCache()
	return c, nil
}

func cardPath(setCode, number, language string) string {
	return fmt.Sprintf("/sets/%s/cards/%s/%s", strings.ToLower(setCode), number, language)
}

// CardByNum looks a card up by collector number within a set. An empty
// language means English.
func (a *Agent) CardByNum(ctx context.Context, setCode, number, language string) (card.Card, error) {
	setCode = strings.ToLower(setCode)
	cacheLang := lang.Normalize(language)
	cachepath := cardPath(setCode, number, cacheLang)
	cached, hit, _ := a.requests.Get(cachepath, nil)
	if hit {
		if m, ok := cached.(map[string]any); ok {
			return card.FromMap(m), nil
		}
	}
	a.logger.Debug("cache miss, querying scryfall", "path", cachepath)

	path := fmt.Sprintf("/cards/%s/%s", setCode, number)
	if language != "" {
		path += "/" + cacheLang
	}
	resp, err := a.getJSON(ctx, path, url.Values{})
	if err != nil {
		return card.Card{}, err
	}
	c := parseCard(resp)
	c.Language = cacheLang

	a.requests.Set(cachepath, c.ToMap())
	a.requests.Set("/id-map/cards/scryfall/"+c.ID.String(), map[string]any{
		"set": c.Set, "num": c.Number, "lang": c.Language,
	})
	a.saveCache()
	return c, nil
}

// CardDefaultNum resolves the collector number a named card should be
// assumed to have within a set when a list line gives none. Results are
// cached; a miss costs one search request.
func (a *Agent) CardDefaultNum(ctx context.Context, name, setCode string) (string, error) {
	setCode = strings.ToLower(setCode)
	cacheName := strings.ReplaceAll(strings.ToLower(name), " ", "_")
	cachepath := fmt.Sprintf("/sets/%s/defaults/%s", setCode, cacheName)
	cached, hit, _ := a.requests.Get(cachepath, nil)
	if hit {
		if num, ok := cached.(string); ok {
			return num, nil
		}
	}
	a.logger.Debug("cache miss, querying scryfall", "path", cachepath)

	candidates, err := a.SearchCards(ctx, name, true, setCode)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", &APIError{Status: 404, Message: fmt.Sprintf("no card named %q in set %s", name, setCode)}
	}
	num := candidates[0].Number
	a.requests.Set(cachepath, num)
	a.saveCache()
	return num, nil
}

// CardImage fetches the image of a card face at the given size. Images are
// cached on disk; a cached image never costs a request.
func (a *Agent) CardImage(ctx context.Context, setCode, number, language string, size card.Size, back bool) ([]byte, error) {
	setCode = strings.ToLower(setCode)
	cacheLang := lang.Normalize(language)
	frontback := "front"
	if back {
		frontback = "back"
	}
	setUpper := strings.ToUpper(setCode)
	padded := card.PadNumber(number)
	cachepath := fmt.Sprintf("/images/set-%s/card-%s/%s-%s-%s-%s-%s.%s",
		setUpper, padded, setUpper, padded, frontback, size.Name, cacheLang, size.Format)

	data, _, hit, _ := a.files.Get(cachepath)
	if hit {
		return data, nil
	}
	a.logger.Debug("image cache miss, querying scryfall", "path", cachepath)

	path := fmt.Sprintf("/cards/%s/%s", setCode, number)
	if language != "" {
		path += "/" + cacheLang
	}
	params := url.Values{}
	params.Set("version", size.APIName)
	params.Set("format", "image")
	if back {
		params.Set("face", "back")
	}
	body, err := a.getBinary(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if err := a.files.Set(cachepath, body); err != nil {
		return nil, err
	}
	a.saveCache()
	return body, nil
}

// CardBackImage fetches the shared card back image. Returns the image
// bytes and the file format extension.
func (a *Agent) CardBackImage(ctx context.Context) ([]byte, string, error) {
	format := a.backURI[strings.LastIndex(a.backURI, ".")+1:]
	cachepath := "/images/misc/back." + format
	data, _, hit, _ := a.files.Get(cachepath)
	if hit {
		return data, format, nil
	}
	a.logger.Debug("image cache miss, downloading card back", "path", cachepath)

	status, body, err := a.get(ctx, a.backURI)
	if err != nil {
		return nil, "", err
	}
	if status >= 400 {
		return nil, "", &APIError{Status: status, Message: "could not download card back image"}
	}
	if err := a.files.Set(cachepath, body); err != nil {
		return nil, "", err
	}
	a.saveCache()
	return body, format, nil
}

// GetSet looks up a card set by its code.
func (a *Agent) GetSet(ctx context.Context, code string) (mtgset.Set, error) {
	code = strings.ToLower(code)
	cachepath := fmt.Sprintf("/sets/%s/info", code)
	cached, hit, _ := a.requests.Get(cachepath, nil)
	if hit {
		if m, ok := cached.(map[string]any); ok {
			return mtgset.FromMap(m), nil
		}
	}
	a.logger.Debug("cache miss, querying scryfall", "path", cachepath)

	resp, err := a.getJSON(ctx, "/sets/"+code, url.Values{})
	if err != nil {
		return mtgset.Set{}, err
	}
	s := parseSet(resp)
	a.requests.Set(cachepath, s.ToMap())
	a.saveCache()
	return s, nil
}

// multi-face layouts carry their faces in a card_faces list
var multiFaceLayouts = map[string]bool{
	"split":              true,
	"flip":               true,
	"transform":          true,
	"double_faced_token": true,
	"modal_dfc":          true,
}

func parseFace(m map[string]any) card.Face {
	return card.Face{
		Name:      str(m, "name"),
		Type:      str(m, "type_line"),
		Cost:      str(m, "mana_cost"),
		Text:      str(m, "oracle_text"),
		Power:     str(m, "power"),
		Toughness: str(m, "toughness"),
	}
}

func parseCard(resp map[string]any) card.Card {
	c := card.Card{
		Set:      str(resp, "set"),
		Rarity:   str(resp, "rarity"),
		Number:   str(resp, "collector_number"),
		Language: lang.Normalize(str(resp, "lang")),
	}
	if id, err := uuid.Parse(str(resp, "id")); err == nil {
		c.ID = id
	}
	if multiFaceLayouts[strings.ToLower(str(resp, "layout"))] {
		if faces, ok := resp["card_faces"].([]any); ok {
			for _, f := range faces {
				if fm, ok := f.(map[string]any); ok {
					c.Faces = append(c.Faces, parseFace(fm))
				}
			}
		}
	}
	if len(c.Faces) == 0 {
		c.Faces = append(c.Faces, parseFace(resp))
	}
	return c
}

func parseSet(resp map[string]any) mtgset.Set {
	s := mtgset.Set{
		Code:      str(resp, "code"),
		Name:      str(resp, "name"),
		Type:      mtgset.ParseType(str(resp, "set_type")),
		Block:     str(resp, "block"),
		ParentSet: str(resp, "parent_set_code"),
	}
	if id, err := uuid.Parse(str(resp, "id")); err == nil {
		s.ID = id
	}
	if rd, err := time.Parse("2006-01-02", str(resp, "released_at")); err == nil {
		s.ReleaseDate = rd
	}
	if count, ok := resp["card_count"].(float64); ok {
		s.CardCount = int(count)
	}
	s.Digital, _ = resp["digital"].(bool)
	s.FoilOnly, _ = resp["foil_only"].(bool)
	s.NonfoilOnly, _ = resp["nonfoil_only"].(bool)
	return s
}

func buildSearchQuery(name, setCode string, exact bool) string {
	q := ""
	if name != "" {
		if exact {
			escaped := strings.ReplaceAll(name, `\`, `\\`)
			escaped = strings.ReplaceAll(escaped, `"`, `\"`)
			q += ` !"` + escaped + `"`
		} else {
			q += " " + name
		}
	}
	if setCode != "" {
		q += " set:" + setCode
	}
	return strings.TrimSpace(q)
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func strList(raw any) []string {
	items, _ := raw.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func anyList(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
