// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"fmt"
	"slices"
)

// Weights of the header validity components.
const (
	weightExifID    = 0.4
	weightMagic     = 0.4
	weightByteOrder = 0.2
)

// Weights of the EXIF Conformity Score components.
const (
	weightHeader   = 0.3
	weightValidity = 0.3
	weightOrder    = 0.4
)

// Directories considered for tag validity and tag order.
var scoredDirectories = []DirectoryKind{ExifIFD, GPSIFD, InteropIFD}

// ConformityReport holds the conformity scores of a decoded EXIF segment.
type ConformityReport struct {
	// HeaderValidity is H = 0.4·E + 0.4·T + 0.2·B.
	HeaderValidity float64

	// TagValidity is the TVS. It is only meaningful if TagValidityDefined is set.
	TagValidity        float64
	TagValidityDefined bool
	// Considered is the number of tags the TVS was computed over.
	Considered int
	// MissingMandatory lists the mandatory tags absent from the scored directories.
	MissingMandatory []string

	// PositionalTagOrder and RankTagOrder hold the per directory tag order scores.
	PositionalTagOrder map[DirectoryKind]float64
	RankTagOrder       map[DirectoryKind]float64
	// TagOrder is the mean positional score over the scored directories.
	TagOrder float64
	// RankOrder is the mean rank score over the scored directories.
	RankOrder float64

	// ECS is the EXIF Conformity Score.
	ECS float64
}

func (c ConformityReport) String() string {
	return fmt.Sprintf("ECS=%.5f H=%.5f TVS=%.5f TOS=%.5f", c.ECS, c.HeaderValidity, c.TagValidity, c.TagOrder)
}

// ScoreConformity scores r using the support levels of compressed (JPEG) images.
func ScoreConformity(r *Report) ConformityReport {
	return ScoreConformityMode(r, Compressed)
}

// ScoreConformityMode scores r using the support levels of the given compression mode.
// It is a pure function of the decoded report.
func ScoreConformityMode(r *Report, mode CompressionMode) ConformityReport {
	c := ConformityReport{
		PositionalTagOrder: make(map[DirectoryKind]float64),
		RankTagOrder:       make(map[DirectoryKind]float64),
	}
	if r == nil || r.EXIF == nil {
		return c
	}
	data := r.EXIF

	c.HeaderValidity = headerValidity(data.Header)

	var tags []DecodedTag
	for _, kind := range scoredDirectories {
		d := data.Directory(kind)
		if d == nil {
			continue
		}
		for _, t := range d.Tags {
			if t.Known {
				tags = append(tags, t)
			}
		}

		for _, def := range tableFor(kind).defs {
			if def.Support.For(mode) != SupportMandatory {
				continue
			}
			if _, found := d.TagByID(def.ID); !found {
				c.MissingMandatory = append(c.MissingMandatory, def.Name)
			}
		}

		if len(d.Tags) == 0 {
			continue
		}
		if len(d.Tags) == 1 {
			// Nothing to order.
			c.PositionalTagOrder[kind] = 1
			c.RankTagOrder[kind] = 1
			continue
		}
		observed := observedOrder(d)
		baseline := tableFor(kind).baseline
		c.PositionalTagOrder[kind] = positionalOrderScore(observed, baseline)
		c.RankTagOrder[kind] = rankOrderScore(observed, baseline)
	}

	c.TagValidity, c.Considered, c.TagValidityDefined = tagValidity(tags, mode)
	c.TagOrder = mean(c.PositionalTagOrder)
	c.RankOrder = mean(c.RankTagOrder)

	if c.TagValidityDefined {
		c.ECS = weightHeader*c.HeaderValidity + weightValidity*c.TagValidity + weightOrder*c.TagOrder
	} else {
		c.ECS = (weightHeader*c.HeaderValidity + weightOrder*c.TagOrder) / (weightHeader + weightOrder)
	}

	return c
}

func headerValidity(h TIFFHeader) float64 {
	return weightExifID*b2f(h.ExifIDFound) + weightMagic*b2f(h.MagicValid) + weightByteOrder*b2f(h.ByteOrderFound)
}

// tagValidity returns the TVS over tags, which are all present.
func tagValidity(tags []DecodedTag, mode CompressionMode) (score float64, n int, defined bool) {
	if len(tags) == 0 {
		return 0, 0, false
	}
	var sum float64
	for _, t := range tags {
		structure := (b2f(t.TypeMatches()) + b2f(t.CountMatches())) / 2
		sum += supportPenalty(t.Support.For(mode), true, structure)
	}
	return 1 - sum/float64(len(tags)), len(tags), true
}

// supportPenalty returns the penalty of a tag with the given support level.
// structure is the structural correctness in [0, 1].
func supportPenalty(level SupportLevel, present bool, structure float64) float64 {
	switch level {
	case SupportMandatory:
		// Absence is reported as MissingMandatory.
		if !present {
			return 0
		}
		return 1 - structure
	case SupportRecommended:
		if !present {
			return 0.5
		}
		return 0.5 * (1 - structure)
	case SupportOptional:
		return 0
	case SupportNotRecorded, SupportJPEGMarker:
		if present {
			return 1
		}
		return 0
	case SupportUnknown:
		if !present {
			return 0.4
		}
		return 0
	default:
		panic(fmt.Sprintf("unknown support level %d", level))
	}
}

// observedOrder returns the registered tag ids of d in recorded order.
func observedOrder(d *Directory) []uint16 {
	var ids []uint16
	for _, t := range d.Tags {
		if t.Known {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// positionalOrderScore compares the position of each tag in observed
// with its position in baseline:
//
//	1 − Σ|i_observed − i_baseline| / (|Z| · len(baseline))
//
// where Z is the set of tags present in both. It is 0 if Z is empty,
// and clamped to 0 when repeated tags push the distance past the bound.
func positionalOrderScore(observed, baseline []uint16) float64 {
	var (
		z        int
		distance int
	)
	for i, id := range observed {
		j := slices.Index(baseline, id)
		if j < 0 {
			continue
		}
		z++
		distance += abs(i - j)
	}
	if z == 0 || len(baseline) == 0 {
		return 0
	}
	return max(0, 1-float64(distance)/float64(z*len(baseline)))
}

// rankOrderScore maps observed to ranks in the baseline restricted to the observed tags
// and returns 1 − inversions / C(n, 2).
// It is 1 if fewer than 2 comparable tags were observed.
func rankOrderScore(observed, baseline []uint16) float64 {
	var ranks []int
	for _, id := range observed {
		if j := slices.Index(baseline, id); j >= 0 {
			ranks = append(ranks, j)
		}
	}
	n := len(ranks)
	if n < 2 {
		return 1
	}
	var inversions int
	for i := range n {
		for j := i + 1; j < n; j++ {
			if ranks[i] > ranks[j] {
				inversions++
			}
		}
	}
	pairs := n * (n - 1) / 2
	return 1 - float64(inversions)/float64(pairs)
}

func mean(m map[DirectoryKind]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	var sum float64
	for _, kind := range scoredDirectories {
		sum += m[kind]
	}
	return sum / float64(len(m))
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
