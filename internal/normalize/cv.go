package normalize

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joseph-ayodele/docstruct/internal/llm"
)

// not safe for concurrent use; the pipeline is single-threaded
var titleCaser = cases.Title(language.Und)

// CV flattens one extracted CV into per-sheet row sets keyed by candidateID.
// Absent or empty sub-entity lists contribute zero rows. Missing required
// root fields signal a malformed upstream extraction and return an error.
func CV(doc *llm.CVDocument, candidateID int, sourcePath string) (map[string]*RowSet, error) {
	if strings.TrimSpace(doc.FullName) == "" {
		return nil, fmt.Errorf("extracted CV is missing full_name")
	}
	if strings.TrimSpace(doc.Email) == "" {
		return nil, fmt.Errorf("extracted CV is missing email")
	}

	// Sub-entity rows carry a title-cased copy of the name for readability.
	name := titleCaser.String(doc.FullName)
	folder := filepath.Base(filepath.Dir(sourcePath))

	candidates := &RowSet{Header: []string{"candidate_id", "full_name", "folder", "email", "phone", "summary", "source_path"}}
	candidates.append(candidateID, doc.FullName, folder, doc.Email, doc.Phone, doc.Summary, sourcePath)

	experience := &RowSet{Header: []string{"candidate_id", "full_name", "company", "location", "title", "start_year", "start_date", "end_date", "responsibilities"}}
	for _, exp := range doc.Experience {
		experience.append(candidateID, name, exp.Company, exp.Location, exp.Title,
			extractYear(exp.StartDate), exp.StartDate, exp.EndDate, joinList(exp.Responsibilities))
	}

	education := &RowSet{Header: []string{"candidate_id", "full_name", "institution", "degree", "start_year", "start_date", "end_date", "details"}}
	for _, edu := range doc.Education {
		education.append(candidateID, name, edu.Institution, edu.Degree,
			extractYear(edu.StartDate), edu.StartDate, edu.EndDate, joinList(edu.Details))
	}

	skills := &RowSet{Header: []string{"candidate_id", "full_name", "name", "level"}}
	for _, sk := range doc.Skills {
		skills.append(candidateID, name, sk.Name, sk.Level)
	}

	languages := &RowSet{Header: []string{"candidate_id", "full_name", "language", "level"}}
	for _, lg := range doc.Languages {
		languages.append(candidateID, name, lg.Language, lg.Level)
	}

	certifications := &RowSet{Header: []string{"candidate_id", "full_name", "certification"}}
	for _, cert := range doc.Certifications {
		certifications.append(candidateID, name, cert)
	}

	return map[string]*RowSet{
		SheetCandidates:     candidates,
		SheetExperience:     experience,
		SheetEducation:      education,
		SheetSkills:         skills,
		SheetLanguages:      languages,
		SheetCertifications: certifications,
	}, nil
}
