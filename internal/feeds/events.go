package feeds

import (
	"sort"
	"strings"

	"adpulse/internal/pipeline"
	"adpulse/pkg/contracts/domain"
)

// FloatingButtonCutoff is the day the landing page started emitting a
// dedicated btn_whatsapp_flutuante event. Rows on or before the cutoff
// predate the event and need the reconstruction below; rows after it
// carry the real count.
const FloatingButtonCutoff = "2025-12-08"

// Events is the receptive-page events feed. It has no aggregation key or
// ratio set: its output is the per-event-name counters built by RankEvents.
func Events() Feed {
	return Feed{
		Name:  "events",
		Range: "Eventos_receptivos",
		Schema: pipeline.Schema{
			Key:  "eventName",
			Date: "date",
			Fields: []pipeline.Field{
				{Name: "date", Headers: []string{"Date", "Data"}, Kind: pipeline.KindDate},
				{Name: "eventName", Headers: []string{"Event name"}, Kind: pipeline.KindString},
				{Name: "eventCount", Headers: []string{"Event count"}, Kind: pipeline.KindInt},
				{Name: "linkURL", Headers: []string{"Link URL", "Link_URL"}, Kind: pipeline.KindString},
				{Name: "modality", Headers: []string{"Modalidade"}, Kind: pipeline.KindString},
			},
			Additive: []string{"eventCount"},
		},
		Classify: ColumnClassifier("modality"),
	}
}

// knownEvents are pre-seeded so the ranking always lists the fixed CTAs,
// even at zero.
var knownEvents = []string{
	"cta_quero_contratar_1", "cta_quero_contratar_2",
	"querocontratar1_sou_cliente_bb", "querocontratar1_nao_sou_cliente_bb",
	"btn_saiba_mais_esquerda", "btn_saiba_mais_meio", "btn_saiba_mais_direita",
	"btn_whatsapp_fundo",
	"cta_quero_contratar_1_vida", "cta_quero_contratar_2_vida",
	"querocontratar1_sou_cliente_bb_vida", "querocontratar1_nao_sou_cliente_bb_vida",
	"btn_saiba_mais_esquerda_vida", "btn_saiba_mais_meio_vida", "btn_saiba_mais_direita_vida",
	"btn_whatsapp_fundo_vida",
	"Button_Canais_Digitais_Footer", "Button_Ouv_Footer", "Button_SAC_Footer",
	"preenchimento_form",
}

// floatingButtonTally accumulates the inputs of the floating-button
// reconstruction for one modality.
type floatingButtonTally struct {
	// legacyWaMe counts generic internal_link_click events whose URL
	// points at wa.me, on or before the cutoff.
	legacyWaMe int64
	// legacyBackground counts the background-button event on or before
	// the cutoff; legacy wa.me clicks include these.
	legacyBackground int64
	// observed counts the real floating-button event after the cutoff.
	observed int64
}

// reconstructed estimates the floating-button total: before the cutoff
// the button emitted no event of its own, so wa.me clicks minus the
// background button approximate it (clamped at zero); after the cutoff
// the observed count is exact.
func (t floatingButtonTally) reconstructed() int64 {
	legacy := t.legacyWaMe - t.legacyBackground
	if legacy < 0 {
		legacy = 0
	}
	return legacy + t.observed
}

// RankEvents sums event counts per event name over the filtered records,
// applying the floating-button reconstruction for the residencial and
// vida variants.
func RankEvents(records []pipeline.Record) map[string]int64 {
	counts := make(map[string]int64, len(knownEvents))
	for _, e := range knownEvents {
		counts[e] = 0
	}

	var residencial, vida floatingButtonTally

	for _, r := range records {
		name := r.Str("eventName")
		count := int64(r.Num("eventCount"))
		date := r.Str("date")
		legacy := date != "" && date <= FloatingButtonCutoff

		switch name {
		case "btn_whatsapp_fundo":
			counts[name] += count
			if legacy {
				residencial.legacyBackground += count
			}
		case "btn_whatsapp_flutuante":
			if !legacy {
				residencial.observed += count
			}
		case "btn_whatsapp_fundo_vida":
			counts[name] += count
			if legacy {
				vida.legacyBackground += count
			}
		case "btn_whatsapp_flutuante_vida":
			if !legacy {
				vida.observed += count
			}
		case "internal_link_click":
			if legacy && strings.Contains(strings.ToLower(r.Str("linkURL")), "wa.me") {
				// The generic click has no modality suffix; the row's
				// Modalidade column decides the bucket, defaulting to
				// residencial.
				if r.Str("modality") == "Vida" {
					vida.legacyWaMe += count
				} else {
					residencial.legacyWaMe += count
				}
			} else {
				counts[name] += count
			}
		default:
			counts[name] += count
		}
	}

	counts["btn_whatsapp_flutuante"] = residencial.reconstructed()
	counts["btn_whatsapp_flutuante_vida"] = vida.reconstructed()
	return counts
}

// CategorizeEvents arranges the counters into the dashboard's fixed
// sections. Items with no activity are dropped unless a child has some;
// each section is sorted by count, descending.
func CategorizeEvents(counts map[string]int64) []domain.EventCategory {
	item := func(id, label string) domain.EventItem {
		return domain.EventItem{ID: id, Label: label, Count: counts[id]}
	}

	contratar1 := item("cta_quero_contratar_1", "Quero Contratar 1 (Residencial)")
	contratar1.Children = []domain.EventItem{
		item("querocontratar1_sou_cliente_bb", "Sou Cliente BB"),
		item("querocontratar1_nao_sou_cliente_bb", "Não Sou Cliente"),
	}
	contratar1Vida := item("cta_quero_contratar_1_vida", "Quero Contratar 1 (Vida)")
	contratar1Vida.Children = []domain.EventItem{
		item("querocontratar1_sou_cliente_bb_vida", "Sou Cliente BB (Vida)"),
		item("querocontratar1_nao_sou_cliente_bb_vida", "Não Sou Cliente (Vida)"),
	}

	categories := []domain.EventCategory{
		{
			ID:    "conversion",
			Label: "Conversão Principal",
			Items: []domain.EventItem{
				contratar1,
				item("cta_quero_contratar_2", "Quero Contratar 2 (Residencial)"),
				contratar1Vida,
				item("cta_quero_contratar_2_vida", "Quero Contratar 2 (Vida)"),
			},
		},
		{
			ID:    "whatsapp",
			Label: "WhatsApp",
			Items: []domain.EventItem{
				item("btn_whatsapp_flutuante", "WhatsApp Flutuante"),
				item("btn_whatsapp_fundo", "WhatsApp Fundo"),
				item("btn_whatsapp_flutuante_vida", "WhatsApp Flutuante (Vida)"),
				item("btn_whatsapp_fundo_vida", "WhatsApp Fundo (Vida)"),
			},
		},
		{
			ID:    "engagement",
			Label: "Engajamento e Navegação",
			Items: []domain.EventItem{
				item("btn_saiba_mais_esquerda", "Saiba Mais (Esq)"),
				item("btn_saiba_mais_meio", "Saiba Mais (Meio)"),
				item("btn_saiba_mais_direita", "Saiba Mais (Dir)"),
				item("btn_saiba_mais_esquerda_vida", "Saiba Mais (Esq - Vida)"),
				item("btn_saiba_mais_meio_vida", "Saiba Mais (Meio - Vida)"),
				item("btn_saiba_mais_direita_vida", "Saiba Mais (Dir - Vida)"),
				item("clique_header_planos", "Header: Planos"),
				item("clique_header_coberturas", "Header: Coberturas"),
				item("clique_header_depoimentos", "Header: Depoimentos"),
				item("clique_header_faq", "Header: FAQ"),
				item("clique_header_planos_vida", "Header: Planos (Vida)"),
				item("clique_header_coberturas_vida", "Header: Coberturas (Vida)"),
				item("clique_header_depoimentos_vida", "Header: Depoimentos (Vida)"),
				item("clique_header_faq_vida", "Header: FAQ (Vida)"),
			},
		},
		{
			ID:    "faq",
			Label: "Dúvidas (FAQ)",
			Items: dynamicItems(counts, "btn_faq_", "FAQ: "),
		},
		{
			ID:    "social",
			Label: "Redes Sociais",
			Items: dynamicItems(counts, "clique_", "Social: "),
		},
		{
			ID:    "institutional",
			Label: "Outros / Institucional",
			Items: []domain.EventItem{
				item("Button_Canais_Digitais_Footer", "Footer: Canais Digitais"),
				item("Button_Ouv_Footer", "Footer: Ouvidoria"),
				item("Button_SAC_Footer", "Footer: SAC"),
				item("preenchimento_form", "Preenchimento Formulário"),
			},
		},
	}

	for i := range categories {
		categories[i].Items = rankItems(categories[i].Items)
	}
	return categories
}

// dynamicItems builds items for event names discovered at runtime, such
// as FAQ entries and social links.
func dynamicItems(counts map[string]int64, prefix, labelPrefix string) []domain.EventItem {
	var items []domain.EventItem
	for id := range counts {
		if !strings.HasPrefix(id, prefix) || strings.Contains(id, "header") {
			continue
		}
		label := labelPrefix + strings.ReplaceAll(strings.TrimPrefix(id, prefix), "_", " ")
		items = append(items, domain.EventItem{ID: id, Label: label, Count: counts[id]})
	}
	return items
}

// rankItems drops inactive items and orders the rest by count descending.
// An item with an active child survives even at zero.
func rankItems(items []domain.EventItem) []domain.EventItem {
	kept := items[:0]
	for _, it := range items {
		active := it.Count > 0
		for _, c := range it.Children {
			if c.Count > 0 {
				active = true
			}
		}
		if active {
			kept = append(kept, it)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Count > kept[j].Count })
	return kept
}
