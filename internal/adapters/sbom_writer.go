package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/ports"
	"pindown/internal/types"
)

type SBOMWriterAdapter struct{}

func NewSBOMWriterAdapter() SBOMWriterAdapter {
	return SBOMWriterAdapter{}
}

func (a SBOMWriterAdapter) WriteSBOM(path string, project string, lockID string, createdAt string, locks []types.LockEntry) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("sbom path is empty")
	}
	if strings.TrimSpace(lockID) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock id is empty")
	}
	if strings.TrimSpace(project) == "" {
		project = "pindown"
	}
	ordered := append([]types.LockEntry(nil), locks...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Type != ordered[j].Type {
			return ordered[i].Type < ordered[j].Type
		}
		return ordered[i].Package < ordered[j].Package
	})
	type spdxCreationInfo struct {
		Created  string   `json:"created"`
		Creators []string `json:"creators"`
	}
	type spdxExternalRef struct {
		ReferenceCategory string `json:"referenceCategory"`
		ReferenceType     string `json:"referenceType"`
		ReferenceLocator  string `json:"referenceLocator"`
	}
	type spdxPackage struct {
		SPDXID           string            `json:"SPDXID"`
		Name             string            `json:"name"`
		VersionInfo      string            `json:"versionInfo"`
		DownloadLocation string            `json:"downloadLocation"`
		LicenseConcluded string            `json:"licenseConcluded"`
		LicenseDeclared  string            `json:"licenseDeclared"`
		Supplier         string            `json:"supplier"`
		ExternalRefs     []spdxExternalRef `json:"externalRefs,omitempty"`
	}
	type spdxRelationship struct {
		SpdxElementID      string `json:"spdxElementId"`
		RelationshipType   string `json:"relationshipType"`
		RelatedSpdxElement string `json:"relatedSpdxElement"`
	}
	created := strings.TrimSpace(createdAt)
	if created == "" {
		created = time.Now().UTC().Format(time.RFC3339)
	}
	payload := struct {
		SPDXVersion       string             `json:"SPDXVersion"`
		DataLicense       string             `json:"DataLicense"`
		SPDXID            string             `json:"SPDXID"`
		Name              string             `json:"name"`
		DocumentNamespace string             `json:"documentNamespace"`
		CreationInfo      spdxCreationInfo   `json:"creationInfo"`
		Packages          []spdxPackage      `json:"packages"`
		Relationships     []spdxRelationship `json:"relationships"`
		DocumentDescribes []string           `json:"documentDescribes"`
	}{
		SPDXVersion:       "SPDX-2.3",
		DataLicense:       "CC0-1.0",
		SPDXID:            "SPDXRef-DOCUMENT",
		Name:              fmt.Sprintf("%s lock %s", project, lockID),
		DocumentNamespace: fmt.Sprintf("https://pindown.dev/spdx/locks/%s", lockID),
		CreationInfo: spdxCreationInfo{
			Created:  created,
			Creators: []string{"Tool: pindown"},
		},
	}
	for _, entry := range ordered {
		spdxID := spdxPackageID(string(entry.Type), entry.Package, entry.Version)
		payload.Packages = append(payload.Packages, spdxPackage{
			SPDXID:           spdxID,
			Name:             entry.Package,
			VersionInfo:      entry.Version,
			DownloadLocation: "NOASSERTION",
			LicenseConcluded: "NOASSERTION",
			LicenseDeclared:  "NOASSERTION",
			Supplier:         "NOASSERTION",
			ExternalRefs: []spdxExternalRef{
				{
					ReferenceCategory: "PACKAGE-MANAGER",
					ReferenceType:     "purl",
					ReferenceLocator:  purlFor(entry),
				},
			},
		})
		payload.DocumentDescribes = append(payload.DocumentDescribes, spdxID)
		payload.Relationships = append(payload.Relationships, spdxRelationship{
			SpdxElementID:      "SPDXRef-DOCUMENT",
			RelationshipType:   "DESCRIBES",
			RelatedSpdxElement: spdxID,
		})
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal sbom payload").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create sbom directory").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write sbom file").
			WithCause(err)
	}
	return nil
}

func purlFor(entry types.LockEntry) string {
	if entry.Type == types.DependencyTypeApt {
		return fmt.Sprintf("pkg:deb/debian/%s@%s", entry.Package, entry.Version)
	}
	return fmt.Sprintf("pkg:pypi/%s@%s", entry.Package, entry.Version)
}

func spdxPackageID(depType string, name string, version string) string {
	seed := fmt.Sprintf("%s:%s@%s", depType, name, version)
	hash := sha256.Sum256([]byte(seed))
	return "SPDXRef-Package-" + hex.EncodeToString(hash[:8])
}

var _ ports.SBOMPort = SBOMWriterAdapter{}
