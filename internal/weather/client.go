package weather

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"

	"github.com/itkutus/potbot/internal/structures"
)

const (
	endpoint     = "https://wttr.in/%s?format=j1"
	cacheSize    = 512 * 1024
	maxBodyBytes = 1 << 20
)

// Report is the subset of wttr.in data shown to users.
type Report struct {
	Area        string
	Country     string
	Region      string
	Description string
	TempC       string
	FeelsLikeC  string
	Humidity    string
	WindKmph    string
	WindDir     string
	Visibility  string
	UvIndex     string
	MinTempC    string
	MaxTempC    string
}

// Client looks up current weather via wttr.in. Responses are cached per
// location so repeated lookups inside the TTL never hit the network.
type Client struct {
	http     *http.Client
	cache    *freecache.Cache
	ttl      int
	endpoint string
}

func NewClient(conf *structures.Config) *Client {
	ttl := int(conf.Weather.CacheTTL.Seconds())
	if ttl <= 0 {
		ttl = 600
	}
	return &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		cache:    freecache.NewCache(cacheSize),
		ttl:      ttl,
		endpoint: endpoint,
	}
}

type wttrResponse struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		FeelsLikeC  string `json:"FeelsLikeC"`
		Humidity    string `json:"humidity"`
		WindKmph    string `json:"windspeedKmph"`
		WindDir     string `json:"winddir16Point"`
		Visibility  string `json:"visibility"`
		UvIndex     string `json:"uvIndex"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []struct {
			Value string `json:"value"`
		} `json:"areaName"`
		Country []struct {
			Value string `json:"value"`
		} `json:"country"`
		Region []struct {
			Value string `json:"value"`
		} `json:"region"`
	} `json:"nearest_area"`
	Weather []struct {
		MinTempC string `json:"mintempC"`
		MaxTempC string `json:"maxtempC"`
	} `json:"weather"`
}

// Current fetches the weather for a location, serving from cache when
// the entry is still fresh.
func (c *Client) Current(location string) (*Report, error) {
	key := []byte(strings.ToLower(strings.TrimSpace(location)))
	if len(key) == 0 {
		return nil, fmt.Errorf("empty location")
	}

	if raw, err := c.cache.Get(key); err == nil {
		var report Report
		if err := json.Unmarshal(raw, &report); err == nil {
			return &report, nil
		}
	}

	resp, err := c.http.Get(fmt.Sprintf(c.endpoint, url.PathEscape(location)))
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %w", err)
	}

	var data wttrResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}
	if len(data.CurrentCondition) == 0 || len(data.NearestArea) == 0 {
		return nil, fmt.Errorf("incomplete weather data for %q", location)
	}

	cur := data.CurrentCondition[0]
	area := data.NearestArea[0]
	report := &Report{
		TempC:      cur.TempC,
		FeelsLikeC: cur.FeelsLikeC,
		Humidity:   cur.Humidity,
		WindKmph:   cur.WindKmph,
		WindDir:    cur.WindDir,
		Visibility: cur.Visibility,
		UvIndex:    cur.UvIndex,
	}
	if len(cur.WeatherDesc) > 0 {
		report.Description = cur.WeatherDesc[0].Value
	}
	if len(area.AreaName) > 0 {
		report.Area = area.AreaName[0].Value
	}
	if len(area.Country) > 0 {
		report.Country = area.Country[0].Value
	}
	if len(area.Region) > 0 {
		report.Region = area.Region[0].Value
	}
	if len(data.Weather) > 0 {
		report.MinTempC = data.Weather[0].MinTempC
		report.MaxTempC = data.Weather[0].MaxTempC
	}

	if raw, err := json.Marshal(report); err == nil {
		_ = c.cache.Set(key, raw, c.ttl)
	}
	return report, nil
}

// Emoji maps a textual weather description onto a representative emoji.
func Emoji(description string) string {
	desc := strings.ToLower(description)
	switch {
	case strings.Contains(desc, "rain"), strings.Contains(desc, "drizzle"):
		return "🌧️"
	case strings.Contains(desc, "snow"):
		return "❄️"
	case strings.Contains(desc, "thunder"), strings.Contains(desc, "storm"):
		return "⛈️"
	case strings.Contains(desc, "cloud"):
		return "☁️"
	case strings.Contains(desc, "sunny"), strings.Contains(desc, "clear"):
		return "☀️"
	case strings.Contains(desc, "fog"), strings.Contains(desc, "mist"):
		return "🌫️"
	default:
		return "🌤️"
	}
}
