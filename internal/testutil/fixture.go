// Package testutil holds small category graph snapshots shared by tests.
package testutil

import "github.com/agentic-research/wikicat/internal/snapshot"

// Ids of the Computer fixture.
const (
	HiddenCategoriesID = "1"
	ShortDescriptionID = "2"
	ComputerID         = "10"
	ConsumerElecID     = "20"
	ComputersID        = "21"
	ComputingID        = "30"
	TechnologyID       = "31"
	IslandID           = "50"
	IsolatedCategoryID = "51"
	MontrealArticleID  = "60"
	MontrealCategoryID = "61"
)

// TopLevel is the top-level category list configured for the Computer fixture.
var TopLevel = []string{"Computing", "Technology"}

// ComputerSnapshot returns a small graph around the article "Computer":
//
//	Computer -> Consumer_electronics -> Technology
//	Computer -> Computers -> Computing
//	Computer -> Articles_with_short_description (hidden)
//	Montreal (article) -> Montreal (category) -> Technology
//
// Island and Isolated_category have no edges.
func ComputerSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		IDToTitle: map[string]string{
			HiddenCategoriesID: "Hidden_categories",
			ShortDescriptionID: "Articles_with_short_description",
			ComputerID:         "Computer",
			ConsumerElecID:     "Consumer_electronics",
			ComputersID:        "Computers",
			ComputingID:        "Computing",
			TechnologyID:       "Technology",
			IslandID:           "Island",
			IsolatedCategoryID: "Isolated_category",
			MontrealArticleID:  "Montreal",
			MontrealCategoryID: "Montreal",
		},
		IDToNamespace: map[string]string{
			HiddenCategoriesID: "category",
			ShortDescriptionID: "category",
			ComputerID:         "article",
			ConsumerElecID:     "category",
			ComputersID:        "14",
			ComputingID:        "category",
			TechnologyID:       "category",
			IslandID:           "0",
			IsolatedCategoryID: "category",
			MontrealArticleID:  "article",
			MontrealCategoryID: "category",
		},
		TitleToID: map[string]map[string]string{
			"article": {
				"Computer": ComputerID,
				"Island":   IslandID,
				"Montreal": MontrealArticleID,
			},
			"category": {
				"Hidden_categories":               HiddenCategoriesID,
				"Articles_with_short_description": ShortDescriptionID,
				"Consumer_electronics":            ConsumerElecID,
				"Computers":                       ComputersID,
				"Computing":                       ComputingID,
				"Technology":                      TechnologyID,
				"Isolated_category":               IsolatedCategoryID,
				"Montreal":                        MontrealCategoryID,
			},
		},
		ChildrenToParents: map[string][]string{
			ShortDescriptionID: {HiddenCategoriesID},
			ComputerID:         {ConsumerElecID, ComputersID, ShortDescriptionID},
			ConsumerElecID:     {TechnologyID},
			ComputersID:        {ComputingID},
			ComputingID:        {},
			MontrealArticleID:  {MontrealCategoryID},
			MontrealCategoryID: {TechnologyID},
		},
		ParentsToChildren: map[string][]string{
			HiddenCategoriesID: {ShortDescriptionID},
			ShortDescriptionID: {ComputerID},
			ConsumerElecID:     {ComputerID},
			ComputersID:        {ComputerID},
			ComputingID:        {ComputersID},
			TechnologyID:       {ConsumerElecID, MontrealCategoryID},
			MontrealCategoryID: {MontrealArticleID},
		},
	}
}

// ComputerJSON is ComputerSnapshot in its serialized form. children_to_parents
// uses the list encoding and parents_to_children the whitespace-joined string
// encoding; some ids and namespace codes are JSON numbers.
const ComputerJSON = `{
  "id_to_title": {
    "1": "Hidden_categories", "2": "Articles_with_short_description",
    "10": "Computer", "20": "Consumer_electronics", "21": "Computers",
    "30": "Computing", "31": "Technology", "50": "Island",
    "51": "Isolated_category", "60": "Montreal", "61": "Montreal"
  },
  "id_to_namespace": {
    "1": "category", "2": "category", "10": "article", "20": "category",
    "21": 14, "30": "category", "31": "category", "50": 0,
    "51": "category", "60": "article", "61": "category"
  },
  "title_to_id": {
    "article": {"Computer": "10", "Island": 50, "Montreal": "60"},
    "category": {
      "Hidden_categories": "1", "Articles_with_short_description": "2",
      "Consumer_electronics": "20", "Computers": "21", "Computing": "30",
      "Technology": "31", "Isolated_category": "51", "Montreal": "61"
    }
  },
  "children_to_parents": {
    "2": ["1"], "10": ["20", "21", "2"], "20": ["31"], "21": [30],
    "30": [], "60": ["61"], "61": ["31"]
  },
  "parents_to_children": {
    "1": "2", "2": "10", "20": "10", "21": "10", "30": "21",
    "31": "20 61", "61": "60"
  }
}`

// ChainSnapshot returns the three-page graph A -> C1 -> C2 with an empty
// hidden-category set.
func ChainSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		IDToTitle: map[string]string{
			"A": "A", "C1": "C1", "C2": "C2", "H": "Hidden_categories",
		},
		IDToNamespace: map[string]string{
			"A": "article", "C1": "category", "C2": "category", "H": "category",
		},
		TitleToID: map[string]map[string]string{
			"article":  {"A": "A"},
			"category": {"C1": "C1", "C2": "C2", "Hidden_categories": "H"},
		},
		ChildrenToParents: map[string][]string{
			"A":  {"C1"},
			"C1": {"C2"},
		},
		ParentsToChildren: map[string][]string{
			"C1": {"A"},
			"C2": {"C1"},
		},
	}
}
