package feeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpulse/internal/pipeline"
	"adpulse/pkg/contracts/domain"
)

type domainCategory struct {
	label string
	items []domain.EventItem
}

func eventRecord(date, name string, count float64, url, modality string) pipeline.Record {
	return pipeline.Record{
		"date":       date,
		"eventName":  name,
		"eventCount": count,
		"linkURL":    url,
		"modality":   modality,
	}
}

func TestRankEvents_SimpleCounts(t *testing.T) {
	records := []pipeline.Record{
		eventRecord("2026-01-10", "cta_quero_contratar_1", 5, "", ""),
		eventRecord("2026-01-11", "cta_quero_contratar_1", 3, "", ""),
		eventRecord("2026-01-11", "btn_saiba_mais_meio", 2, "", ""),
	}

	counts := RankEvents(records)

	assert.Equal(t, int64(8), counts["cta_quero_contratar_1"])
	assert.Equal(t, int64(2), counts["btn_saiba_mais_meio"])
	assert.Equal(t, int64(0), counts["cta_quero_contratar_2"], "known events are seeded at zero")
}

func TestRankEvents_FloatingButtonBeforeCutoff(t *testing.T) {
	// Before the cutoff the floating button emitted only the generic
	// internal_link_click toward wa.me; the background button's own
	// clicks are part of that total and must be subtracted.
	records := []pipeline.Record{
		eventRecord("2025-11-20", "internal_link_click", 30, "https://wa.me/5511999999999", ""),
		eventRecord("2025-11-20", "btn_whatsapp_fundo", 12, "", ""),
		eventRecord("2025-11-21", "internal_link_click", 4, "https://example.com/planos", ""),
	}

	counts := RankEvents(records)

	assert.Equal(t, int64(18), counts["btn_whatsapp_flutuante"])
	assert.Equal(t, int64(12), counts["btn_whatsapp_fundo"], "background button keeps its own count")
	assert.Equal(t, int64(4), counts["internal_link_click"], "non-wa.me clicks stay in the generic bucket")
}

func TestRankEvents_GenericClicksAfterCutoff(t *testing.T) {
	// Once the dedicated event exists, internal_link_click rows are
	// ordinary events again, wa.me destination or not.
	records := []pipeline.Record{
		eventRecord("2025-12-10", "internal_link_click", 50, "https://wa.me/551199", ""),
		eventRecord("2025-12-11", "internal_link_click", 8, "https://example.com/planos", ""),
	}

	counts := RankEvents(records)

	assert.Equal(t, int64(58), counts["internal_link_click"])
	assert.Equal(t, int64(0), counts["btn_whatsapp_flutuante"])
}

func TestRankEvents_FloatingButtonClampedAtZero(t *testing.T) {
	records := []pipeline.Record{
		eventRecord("2025-11-20", "internal_link_click", 5, "https://wa.me/551199", ""),
		eventRecord("2025-11-20", "btn_whatsapp_fundo", 9, "", ""),
	}

	counts := RankEvents(records)

	assert.Equal(t, int64(0), counts["btn_whatsapp_flutuante"])
}

func TestRankEvents_FloatingButtonAfterCutoff(t *testing.T) {
	// After the cutoff the dedicated event is exact; wa.me clicks no
	// longer feed the estimate.
	records := []pipeline.Record{
		eventRecord("2025-12-09", "btn_whatsapp_flutuante", 7, "", ""),
		eventRecord("2025-12-10", "internal_link_click", 50, "https://wa.me/551199", ""),
		eventRecord("2025-12-09", "btn_whatsapp_fundo", 3, "", ""),
	}

	counts := RankEvents(records)

	assert.Equal(t, int64(7), counts["btn_whatsapp_flutuante"])
}

func TestRankEvents_FloatingButtonStraddlesCutoff(t *testing.T) {
	records := []pipeline.Record{
		// legacy window: 20 wa.me - 5 background = 15
		eventRecord("2025-12-08", "internal_link_click", 20, "https://wa.me/551199", ""),
		eventRecord("2025-12-08", "btn_whatsapp_fundo", 5, "", ""),
		// observed window
		eventRecord("2025-12-09", "btn_whatsapp_flutuante", 4, "", ""),
	}

	counts := RankEvents(records)

	assert.Equal(t, int64(19), counts["btn_whatsapp_flutuante"])
}

func TestRankEvents_VidaBucketSplit(t *testing.T) {
	records := []pipeline.Record{
		eventRecord("2025-11-20", "internal_link_click", 10, "https://wa.me/551199", "Vida"),
		eventRecord("2025-11-20", "internal_link_click", 6, "https://wa.me/551199", ""),
		eventRecord("2025-11-20", "btn_whatsapp_fundo_vida", 3, "", "Vida"),
		eventRecord("2025-12-09", "btn_whatsapp_flutuante_vida", 2, "", "Vida"),
	}

	counts := RankEvents(records)

	assert.Equal(t, int64(9), counts["btn_whatsapp_flutuante_vida"], "10 legacy - 3 background + 2 observed")
	assert.Equal(t, int64(6), counts["btn_whatsapp_flutuante"])
}

func TestCategorizeEvents(t *testing.T) {
	counts := map[string]int64{
		"cta_quero_contratar_1":              10,
		"querocontratar1_sou_cliente_bb":     6,
		"querocontratar1_nao_sou_cliente_bb": 4,
		"cta_quero_contratar_2":              15,
		"btn_whatsapp_flutuante":             8,
		"btn_faq_cobertura":                  3,
		"btn_faq_pagamento":                  7,
		"clique_instagram":                   2,
		"clique_header_faq":                  5,
		"btn_saiba_mais_meio":                0,
	}

	categories := CategorizeEvents(counts)
	byID := make(map[string]domainCategory, len(categories))
	for _, c := range categories {
		byID[c.ID] = domainCategory{c.Label, c.Items}
	}

	conv := byID["conversion"]
	require.Len(t, conv.items, 2, "zero-count conversion items are dropped")
	assert.Equal(t, "cta_quero_contratar_2", conv.items[0].ID, "sorted by count, descending")
	assert.Equal(t, "cta_quero_contratar_1", conv.items[1].ID)
	require.Len(t, conv.items[1].Children, 2)

	faq := byID["faq"]
	require.Len(t, faq.items, 2)
	assert.Equal(t, "btn_faq_pagamento", faq.items[0].ID)
	assert.Equal(t, "FAQ: pagamento", faq.items[0].Label)

	social := byID["social"]
	require.Len(t, social.items, 1, "header clicks are excluded from social")
	assert.Equal(t, "clique_instagram", social.items[0].ID)

	engagement := byID["engagement"]
	for _, it := range engagement.items {
		assert.NotZero(t, it.Count)
	}
}

func TestCategorizeEvents_ParentSurvivesViaChild(t *testing.T) {
	counts := map[string]int64{
		"cta_quero_contratar_1":          0,
		"querocontratar1_sou_cliente_bb": 2,
	}

	categories := CategorizeEvents(counts)

	for _, c := range categories {
		if c.ID != "conversion" {
			continue
		}
		require.Len(t, c.Items, 1)
		assert.Equal(t, "cta_quero_contratar_1", c.Items[0].ID)
		return
	}
	t.Fatal("conversion category missing")
}
