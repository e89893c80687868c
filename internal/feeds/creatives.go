package feeds

import "adpulse/internal/pipeline"

// Pinterest is the treated Pinterest creatives feed. Grouped by creative
// name; CPC/CTR use plain clicks.
func Pinterest() Feed {
	return Feed{
		Name:  "pinterest",
		Range: "Pinterest_tratado",
		Schema: pipeline.Schema{
			Key:  "adName",
			Date: "date",
			Fields: []pipeline.Field{
				{Name: "date", Headers: []string{"Date", "Data", "Day"}, Kind: pipeline.KindDate},
				{Name: "campaignName", Headers: []string{"Campaign name", "Campaign"}, Kind: pipeline.KindString},
				{Name: "adGroupName", Headers: []string{"Ad group name", "Ad group"}, Kind: pipeline.KindString},
				{Name: "adName", Headers: []string{"Creative title", "Ad name", "Pin title"}, Kind: pipeline.KindString},
				{Name: "impressions", Headers: []string{"Impressions", "Impr."}, Kind: pipeline.KindInt},
				{Name: "clicks", Headers: []string{"Clicks", "Link clicks"}, Kind: pipeline.KindInt},
				{Name: "cost", Headers: []string{"Total spent", "Spend", "Cost"}, Kind: pipeline.KindNumber},
				{Name: "reach", Headers: []string{"Reach", "Alcance"}, Kind: pipeline.KindInt},
				{Name: "engagements", Headers: []string{"Total engagements", "Engagements", "Results"}, Kind: pipeline.KindInt},
				{Name: "videoViews", Headers: []string{"Video views", "Views"}, Kind: pipeline.KindInt},
				{Name: "videoViews100", Headers: []string{"Video views at 100%", "Video completions", "Plays at 100%"}, Kind: pipeline.KindInt},
			},
			Additive: []string{"impressions", "clicks", "cost", "reach", "engagements", "videoViews", "videoViews100"},
		},
		Key:      pipeline.KeyField("adName"),
		Classify: ModalityClassifier("adName"),
		Ratios:   pipeline.StandardRatios("clicks"),
		PageSize: 10,
	}
}

// Meta is the untreated Meta ads feed. Meta bills link clicks, so the
// click numerator differs from Pinterest.
func Meta() Feed {
	return Feed{
		Name:  "meta",
		Range: "Meta_nao_tratado",
		Schema: pipeline.Schema{
			Key:  "adName",
			Date: "date",
			Fields: []pipeline.Field{
				{Name: "date", Headers: []string{"Date", "Data", "Day"}, Kind: pipeline.KindDate},
				{Name: "campaignName", Headers: []string{"Campaign name", "Campaign"}, Kind: pipeline.KindString},
				{Name: "adName", Headers: []string{"Ad name"}, Kind: pipeline.KindString},
				{Name: "destinationURL", Headers: []string{"External destination URL", "Destination URL"}, Kind: pipeline.KindString},
				{Name: "impressions", Headers: []string{"Impressions"}, Kind: pipeline.KindInt},
				{Name: "linkClicks", Headers: []string{"Link clicks", "Outbound clicks"}, Kind: pipeline.KindInt},
				{Name: "cost", Headers: []string{"Cost", "Amount spent"}, Kind: pipeline.KindNumber},
				{Name: "reach", Headers: []string{"Reach"}, Kind: pipeline.KindInt},
				{Name: "videoViews100", Headers: []string{"Video plays at 100%", "ThruPlays"}, Kind: pipeline.KindInt},
			},
			Additive: []string{"impressions", "linkClicks", "cost", "reach", "videoViews100"},
		},
		Key:      pipeline.KeyField("adName"),
		Classify: ModalityClassifier("adName"),
		Ratios:   pipeline.StandardRatios("linkClicks"),
		PageSize: 10,
	}
}

// GoogleSearch is the search keywords feed, grouped by keyword.
func GoogleSearch() Feed {
	return Feed{
		Name:  "googlesearch",
		Range: "GoogleSearch_keywords",
		Schema: pipeline.Schema{
			Key:  "keyword",
			Date: "date",
			Fields: []pipeline.Field{
				{Name: "date", Headers: []string{"Date", "Day", "Dia", "Data"}, Kind: pipeline.KindDate},
				{Name: "campaignName", Headers: []string{"Campaign name", "Campanha"}, Kind: pipeline.KindString},
				{Name: "adGroupName", Headers: []string{"Ad group name", "Grupo de anúncios"}, Kind: pipeline.KindString},
				{Name: "keyword", Headers: []string{"Keyword", "Search keyword", "Palavra-chave", "Termo de pesquisa"}, Kind: pipeline.KindString},
				{Name: "impressions", Headers: []string{"Impressions", "Impr.", "Impressões"}, Kind: pipeline.KindInt},
				{Name: "clicks", Headers: []string{"Clicks", "Cliques"}, Kind: pipeline.KindInt},
			},
			Additive: []string{"impressions", "clicks"},
		},
		Key: pipeline.KeyField("keyword"),
		Ratios: []pipeline.Ratio{
			{Name: "ctr", Numerator: "clicks", Denominator: "impressions", Scale: 100},
		},
		PageSize: 15,
	}
}
