// Package programio loads and saves program definitions. The engine never
// parses raw files; this adapter converts between the YAML/JSON document
// shape and fully validated core types.
package programio

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/abaelde/structure-application/core/types"
	"github.com/abaelde/structure-application/internal/errors"
)

// ProgramDoc is the serialized shape of a program definition. The same
// structure is used for YAML files and for the HTTP API's JSON payloads.
type ProgramDoc struct {
	Name                   string         `yaml:"name" json:"name"`
	UnderwritingDepartment string         `yaml:"underwriting_department" json:"underwriting_department"`
	DimensionColumns       []string       `yaml:"dimension_columns" json:"dimension_columns"`
	Structures             []StructureDoc `yaml:"structures" json:"structures"`
	Exclusions             []ExclusionDoc `yaml:"exclusions,omitempty" json:"exclusions,omitempty"`
}

// StructureDoc is the serialized shape of one treaty layer
type StructureDoc struct {
	Name                string         `yaml:"name" json:"name"`
	TypeOfParticipation string         `yaml:"type_of_participation" json:"type_of_participation"`
	Predecessor         string         `yaml:"predecessor,omitempty" json:"predecessor,omitempty"`
	ClaimBasis          string         `yaml:"claim_basis" json:"claim_basis"`
	InceptionDate       string         `yaml:"inception_date" json:"inception_date"`
	ExpiryDate          string         `yaml:"expiry_date" json:"expiry_date"`
	Conditions          []ConditionDoc `yaml:"conditions" json:"conditions"`
}

// ConditionDoc is the serialized shape of one condition row. Financial
// fields are strings to keep decimal values exact in both YAML and JSON.
type ConditionDoc struct {
	CessionPct        string              `yaml:"cession_pct,omitempty" json:"cession_pct,omitempty"`
	Attachment        string              `yaml:"attachment,omitempty" json:"attachment,omitempty"`
	Limit             string              `yaml:"limit,omitempty" json:"limit,omitempty"`
	SignedShare       string              `yaml:"signed_share" json:"signed_share"`
	IncludesHull      *bool               `yaml:"includes_hull,omitempty" json:"includes_hull,omitempty"`
	IncludesLiability *bool               `yaml:"includes_liability,omitempty" json:"includes_liability,omitempty"`
	Dimensions        map[string][]string `yaml:"dimensions,omitempty" json:"dimensions,omitempty"`
}

// ExclusionDoc is the serialized shape of one exclusion rule
type ExclusionDoc struct {
	Name          string              `yaml:"name,omitempty" json:"name,omitempty"`
	EffectiveDate string              `yaml:"effective_date,omitempty" json:"effective_date,omitempty"`
	ExpiryDate    string              `yaml:"expiry_date,omitempty" json:"expiry_date,omitempty"`
	Values        map[string][]string `yaml:"values" json:"values"`
}

// ToProgram converts and validates the document into a core Program
func (d ProgramDoc) ToProgram() (types.Program, error) {
	program := types.Program{
		Name:             strings.TrimSpace(d.Name),
		Department:       types.Department(strings.TrimSpace(d.UnderwritingDepartment)),
		DimensionColumns: trimAll(d.DimensionColumns),
	}

	for _, sd := range d.Structures {
		s, err := sd.toStructure()
		if err != nil {
			return types.Program{}, err
		}
		program.Structures = append(program.Structures, s)
	}
	for _, ed := range d.Exclusions {
		r, err := ed.toExclusion()
		if err != nil {
			return types.Program{}, err
		}
		program.Exclusions = append(program.Exclusions, r)
	}

	return types.NewProgram(program)
}

func (d StructureDoc) toStructure() (types.Structure, error) {
	inception, err := types.ParseDate(d.InceptionDate)
	if err != nil {
		return types.Structure{}, errors.Configf("structure %q: %v", d.Name, err)
	}
	expiry, err := types.ParseDate(d.ExpiryDate)
	if err != nil {
		return types.Structure{}, errors.Configf("structure %q: %v", d.Name, err)
	}

	s := types.Structure{
		Name:        strings.TrimSpace(d.Name),
		Product:     types.ProductType(strings.TrimSpace(d.TypeOfParticipation)),
		Predecessor: strings.TrimSpace(d.Predecessor),
		ClaimBasis:  types.ClaimBasis(strings.TrimSpace(d.ClaimBasis)),
		Inception:   inception,
		Expiry:      expiry,
	}
	for i, cd := range d.Conditions {
		c, err := cd.toCondition()
		if err != nil {
			return types.Structure{}, errors.Configf("structure %q condition %d: %v", d.Name, i, err)
		}
		s.Conditions = append(s.Conditions, c)
	}
	return s, nil
}

func (d ConditionDoc) toCondition() (types.Condition, error) {
	c := types.Condition{
		IncludesHull:      d.IncludesHull,
		IncludesLiability: d.IncludesLiability,
	}

	var err error
	if c.CessionPct, err = optionalDecimal("cession_pct", d.CessionPct); err != nil {
		return types.Condition{}, err
	}
	if c.Attachment, err = optionalDecimal("attachment", d.Attachment); err != nil {
		return types.Condition{}, err
	}
	if c.Limit, err = optionalDecimal("limit", d.Limit); err != nil {
		return types.Condition{}, err
	}

	if strings.TrimSpace(d.SignedShare) == "" {
		return types.Condition{}, errors.Config("signed_share is required")
	}
	share, err := decimal.NewFromString(strings.TrimSpace(d.SignedShare))
	if err != nil {
		return types.Condition{}, errors.Configf("signed_share %q is not numeric", d.SignedShare)
	}
	c.SignedShare = share

	if len(d.Dimensions) > 0 {
		c.Dimensions = make(map[string][]string, len(d.Dimensions))
		for dim, values := range d.Dimensions {
			c.Dimensions[strings.TrimSpace(dim)] = trimAll(values)
		}
	}
	return c, nil
}

func (d ExclusionDoc) toExclusion() (types.ExclusionRule, error) {
	r := types.ExclusionRule{Name: strings.TrimSpace(d.Name)}

	if strings.TrimSpace(d.EffectiveDate) != "" {
		t, err := types.ParseDate(d.EffectiveDate)
		if err != nil {
			return types.ExclusionRule{}, err
		}
		r.Effective = &t
	}
	if strings.TrimSpace(d.ExpiryDate) != "" {
		t, err := types.ParseDate(d.ExpiryDate)
		if err != nil {
			return types.ExclusionRule{}, err
		}
		r.Expiry = &t
	}

	if len(d.Values) > 0 {
		r.Values = make(map[string][]string, len(d.Values))
		for dim, values := range d.Values {
			r.Values[strings.TrimSpace(dim)] = trimAll(values)
		}
	}
	return r, nil
}

// FromProgram converts a core Program back to its document shape
func FromProgram(p types.Program) ProgramDoc {
	doc := ProgramDoc{
		Name:                   p.Name,
		UnderwritingDepartment: p.Department.String(),
		DimensionColumns:       p.DimensionColumns,
	}
	for _, s := range p.Structures {
		sd := StructureDoc{
			Name:                s.Name,
			TypeOfParticipation: s.Product.String(),
			Predecessor:         s.Predecessor,
			ClaimBasis:          s.ClaimBasis.String(),
			InceptionDate:       s.Inception.Format(types.DateLayout),
			ExpiryDate:          s.Expiry.Format(types.DateLayout),
		}
		for _, c := range s.Conditions {
			cd := ConditionDoc{
				SignedShare:       c.SignedShare.String(),
				IncludesHull:      c.IncludesHull,
				IncludesLiability: c.IncludesLiability,
				Dimensions:        c.Dimensions,
			}
			if c.CessionPct != nil {
				cd.CessionPct = c.CessionPct.String()
			}
			if c.Attachment != nil {
				cd.Attachment = c.Attachment.String()
			}
			if c.Limit != nil {
				cd.Limit = c.Limit.String()
			}
			sd.Conditions = append(sd.Conditions, cd)
		}
		doc.Structures = append(doc.Structures, sd)
	}
	for _, r := range p.Exclusions {
		ed := ExclusionDoc{Name: r.Name, Values: r.Values}
		if r.Effective != nil {
			ed.EffectiveDate = r.Effective.Format(types.DateLayout)
		}
		if r.Expiry != nil {
			ed.ExpiryDate = r.Expiry.Format(types.DateLayout)
		}
		doc.Exclusions = append(doc.Exclusions, ed)
	}
	return doc
}

func optionalDecimal(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.Configf("%s %q is not numeric", field, raw)
	}
	return &v, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
