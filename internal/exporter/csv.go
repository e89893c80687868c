// Package exporter renders report views as CSV downloads, with a UTF-8
// BOM so Excel opens the accented Portuguese labels correctly.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"adpulse/pkg/contracts/domain"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteCreatives writes the creatives of a report as CSV.
func WriteCreatives(w io.Writer, report *domain.CreativeReport) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	headers := []string{
		"ad_name", "campaign_name", "ad_group_name", "first_date",
		"impressions", "clicks", "cost", "reach",
		"cpm", "cpc", "ctr", "frequency", "vtr",
	}
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, c := range report.Creatives {
		record := []string{
			c.AdName, c.CampaignName, c.AdGroupName, c.FirstDate,
			number(c.Impressions), number(c.Clicks), number(c.Cost), number(c.Reach),
			number(c.CPM), number(c.CPC), number(c.CTR), number(c.Frequency), number(c.VTR),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteKeywords writes the keywords of a report as CSV.
func WriteKeywords(w io.Writer, report *domain.KeywordReport) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	headers := []string{"keyword", "campaign_name", "ad_group_name", "impressions", "clicks", "ctr"}
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, k := range report.Keywords {
		record := []string{
			k.Keyword, k.CampaignName, k.AdGroupName,
			number(k.Impressions), number(k.Clicks), number(k.CTR),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
