// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ealevli/il-ilce-eslestirme/spatial"
)

// Provider is the reverse geocoding backend of a Resolver.
type Provider interface {
	Reverse(ctx context.Context, p spatial.Point) (*Result, error)
}

// Limiter throttles outgoing provider calls. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Outcome is the terminal state of a resolution attempt.
type Outcome int

const (
	// Resolved carries a usable (il, ilçe) pair.
	Resolved Outcome = iota
	// NotFound means the provider answered but no province could be
	// extracted after every fallback and retry.
	NotFound
	// Failed means an unrecoverable error interrupted the attempt.
	Failed
)

// Sentinel values written at the spreadsheet boundary. The resolver itself
// never stores them in Resolution fields.
const (
	SentinelUnknownProvince = "Unknown-Province"
	SentinelUnknownDistrict = "Unknown-District"
	SentinelNotFound        = "NotFound"
	SentinelError           = "Error"

	// DistrictCenter is reported when the district equals its province,
	// meaning the point falls in the province's central district.
	DistrictCenter = "Merkez"
)

// Resolution is the outcome of reverse geocoding one point.
type Resolution struct {
	Outcome  Outcome
	Province string
	District string
	Err      error
}

// ProvinceLabel serializes the province for spreadsheet output.
func (r Resolution) ProvinceLabel() string {
	switch r.Outcome {
	case Failed:
		return SentinelError
	case NotFound:
		return SentinelNotFound
	}

	if r.Province == "" {
		return SentinelUnknownProvince
	}

	return r.Province
}

// DistrictLabel serializes the district for spreadsheet output.
func (r Resolution) DistrictLabel() string {
	switch r.Outcome {
	case Failed:
		return SentinelError
	case NotFound:
		return SentinelNotFound
	}

	if r.District == "" {
		return SentinelUnknownDistrict
	}

	return r.District
}

// Ordered preference for extracting each administrative level from the
// structured address. First non-empty normalized value wins.
var (
	provinceKeys = []string{"province", "state"}
	districtKeys = []string{
		"town", "county", "municipality", "city_district",
		"district", "suburb", "village",
	}
)

// ResolverOptions configuration for a Resolver.
type ResolverOptions struct {
	// MaxRetries bounds attempts per point. Defaults to 3.
	MaxRetries int

	// Limiter throttles provider calls. Defaults to one call per 1.1
	// seconds, the public Nominatim usage limit.
	Limiter Limiter

	// Sleep is the backoff function, injectable for tests.
	Sleep func(time.Duration)
}

// Resolver turns coordinates into normalized (il, ilçe) pairs, retrying
// transient provider failures and falling back to display_name parsing
// when the structured address is incomplete.
type Resolver struct {
	provider   Provider
	limiter    Limiter
	maxRetries int
	sleep      func(time.Duration)
}

const serviceBackoff = 2 * time.Second

// NewResolver creates a Resolver over the given provider.
func NewResolver(provider Provider, options *ResolverOptions) *Resolver {
	if options == nil {
		options = &ResolverOptions{}
	}

	maxRetries := options.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	limiter := options.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(1100*time.Millisecond), 1)
	}

	sleep := options.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &Resolver{
		provider:   provider,
		limiter:    limiter,
		maxRetries: maxRetries,
		sleep:      sleep,
	}
}

// Resolve reverse geocodes the point. A Failed outcome is also returned as
// an error; NotFound is a valid answer and is not an error.
func (r *Resolver) Resolve(ctx context.Context, p spatial.Point) (Resolution, error) {
	if !p.Valid() {
		return Resolution{Outcome: NotFound}, nil
	}

	var lastErr error

	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return Resolution{Outcome: Failed, Err: err}, err
		}

		result, err := r.provider.Reverse(ctx, p)
		if err != nil {
			if !IsRetryable(err) {
				return Resolution{Outcome: Failed, Err: err}, err
			}

			log.Printf("transient geocoding failure for %s (attempt %d/%d): %v",
				p, attempt, r.maxRetries, err)
			lastErr = err

			r.sleep(serviceBackoff)

			continue
		}

		if result.Empty() {
			// The provider answered with nothing. Some spots resolve on
			// a later try, so this burns a retry rather than giving up.
			lastErr = nil

			continue
		}

		if resolution, ok := extract(result); ok {
			return resolution, nil
		}
	}

	// Transient errors never escalate to Failed. Exhaustion means the
	// point could not be resolved, however the attempts ended.
	if lastErr != nil {
		log.Printf("giving up on %s after %d attempts: %v", p, r.maxRetries, lastErr)
	}

	return Resolution{Outcome: NotFound}, nil
}

// extract builds a Resolution from a provider result. It reports !ok when
// neither a province nor a district could be established, letting the
// caller retry.
func extract(result *Result) (Resolution, bool) {
	province := firstNormalized(&result.Address, provinceKeys)
	district := firstNormalized(&result.Address, districtKeys)

	if province == "" || district == "" {
		fallbackProvince, fallbackDistrict := fromDisplayName(result.DisplayName)

		if province == "" {
			province = fallbackProvince
		}

		if district == "" && fallbackDistrict != "" && fallbackProvince == province {
			district = fallbackDistrict
		}
	}

	switch {
	case province != "" && district != "":
		if district == province {
			district = DistrictCenter
		}

		return Resolution{Outcome: Resolved, Province: province, District: district}, true
	case province != "":
		return Resolution{Outcome: Resolved, Province: province}, true
	case district != "":
		// A lone district keeps the region as a stand-in province, or
		// none at all.
		region := NormalizeName(result.Address.Region)

		return Resolution{Outcome: Resolved, Province: region, District: district}, true
	default:
		return Resolution{}, false
	}
}

func firstNormalized(address *Address, keys []string) string {
	for _, key := range keys {
		if normalized := NormalizeName(address.Field(key)); normalized != "" {
			return normalized
		}
	}

	return ""
}

// fromDisplayName scans the comma separated display_name, ordered finest
// to coarsest, for a part matching a known province. The part just before
// the match is the district candidate, rejected when it repeats the
// province or names a supra-district zone like "Marmara Bölgesi".
func fromDisplayName(displayName string) (province, district string) {
	if displayName == "" {
		return "", ""
	}

	parts := strings.Split(displayName, ",")

	normalized := make([]string, len(parts))
	for i, part := range parts {
		normalized[i] = NormalizeName(strings.TrimSpace(part))
	}

	for i, part := range normalized {
		if !IsProvince(part) {
			continue
		}

		province = part

		if i > 0 {
			candidate := normalized[i-1]
			if candidate != province && !strings.Contains(candidate, "Bölge") {
				district = candidate
			}
		}

		return province, district
	}

	return "", ""
}
