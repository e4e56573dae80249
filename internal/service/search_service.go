package service

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/meilisearch/meilisearch-go"

	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/pkg/apperror"
)

const worksIndex = "works"

// WorkDoc is the search document for a record of any work kind. The ID
// is "<kind>-<pk>" so the four tables share one index without
// colliding.
type WorkDoc struct {
	ID                  string   `json:"id"`
	Kind                string   `json:"kind"`
	RecordID            uint     `json:"record_id"`
	Title               string   `json:"title"`
	Year                string   `json:"year"`
	Language            string   `json:"language"`
	OwnerID             string   `json:"owner_id"`
	AuthorIDs           []string `json:"author_ids"`
	DepartmentID        uint     `json:"department_id"`
	IsDepartmentVisible bool     `json:"is_department_visible"`
}

type SearchService interface {
	IndexWork(doc WorkDoc) error
	DeleteWork(kind string, recordID uint) error
	Search(actor *model.Profile, query string) ([]WorkDoc, error)
}

type searchService struct {
	client meilisearch.ServiceManager
}

// NewSearchService wraps the meilisearch client. A nil client turns
// every method into a no-op so search stays optional; list endpoints
// fall back to SQL title matching either way.
func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	if client != nil {
		s.initIndex()
	}
	return s
}

func (s *searchService) initIndex() {
	filterable := []any{"kind", "owner_id", "author_ids", "department_id", "is_department_visible"}
	if _, err := s.client.Index(worksIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Printf("Failed to update works filterable attributes: %v", err)
	}

	sortable := []string{"year"}
	if _, err := s.client.Index(worksIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update works sortable attributes: %v", err)
	}
}

func (s *searchService) IndexWork(doc WorkDoc) error {
	if s.client == nil {
		return nil
	}
	doc.ID = fmt.Sprintf("%s-%d", doc.Kind, doc.RecordID)
	_, err := s.client.Index(worksIndex).AddDocuments([]WorkDoc{doc}, strPtr("id"))
	return err
}

func (s *searchService) DeleteWork(kind string, recordID uint) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(worksIndex).DeleteDocument(fmt.Sprintf("%s-%d", kind, recordID))
	return err
}

// searchFilter phrases the same per-role visibility union the SQL read
// scope applies, so search never surfaces a title the list endpoints
// would hide.
func searchFilter(actor *model.Profile) string {
	switch actor.Role {
	case model.RoleAdmin:
		return ""
	case model.RoleHOD:
		if actor.DepartmentID == nil {
			return "is_department_visible = true"
		}
		return fmt.Sprintf("department_id = %d OR is_department_visible = true", *actor.DepartmentID)
	default:
		own := fmt.Sprintf("owner_id = %q OR author_ids = %q", actor.ID.String(), actor.ID.String())
		if actor.DepartmentID == nil {
			return own
		}
		return fmt.Sprintf("%s OR (is_department_visible = true AND department_id = %d)",
			own, *actor.DepartmentID)
	}
}

// Search runs a cross-kind title search restricted to what the actor's
// read scope allows.
func (s *searchService) Search(actor *model.Profile, query string) ([]WorkDoc, error) {
	if s.client == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "search is not configured", nil)
	}

	req := &meilisearch.SearchRequest{Limit: 50}
	if filter := searchFilter(actor); filter != "" {
		req.Filter = filter
	}

	resp, err := s.client.Index(worksIndex).Search(query, req)
	if err != nil {
		return nil, err
	}

	docs := make([]WorkDoc, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc WorkDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func strPtr(s string) *string {
	return &s
}
