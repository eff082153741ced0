package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDoctor    Role = "doctor"
	RoleNurse     Role = "nurse"
	RoleParamedic Role = "paramedic"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleParamedic:
		return true
	}
	return false
}

// Tool is one entry of the Nexus menu. Every calculator is a variant;
// variants without a calculation behind them report ToolNotImplemented.
type Tool string

const (
	ToolGlycemia          Tool = "glycemia"
	ToolCervicalCollar    Tool = "cervical_collar"
	ToolNIHSS             Tool = "nihss"
	ToolGlasgow           Tool = "glasgow"
	ToolInterventionSheet Tool = "intervention_sheet"
	ToolAPGAR             Tool = "apgar"
	ToolFramingham        Tool = "framingham"
	ToolBMI               Tool = "bmi"
	ToolClearance         Tool = "clearance"
	ToolReferenceRanges   Tool = "reference_ranges"
)

type ToolStatus string

const (
	ToolAvailable      ToolStatus = "available"
	ToolNotImplemented ToolStatus = "not_implemented"
)

var tools = []Tool{
	ToolGlycemia,
	ToolCervicalCollar,
	ToolNIHSS,
	ToolGlasgow,
	ToolInterventionSheet,
	ToolAPGAR,
	ToolFramingham,
	ToolBMI,
	ToolClearance,
	ToolReferenceRanges,
}

// Tools lists every variant in menu order. The slice is a copy.
func Tools() []Tool {
	return slices.Clone(tools)
}

func (t Tool) IsValid() bool {
	return slices.Contains(tools, t)
}

func (t Tool) Status() ToolStatus {
	switch t {
	case ToolCervicalCollar, ToolInterventionSheet:
		return ToolNotImplemented
	}
	return ToolAvailable
}

// Label is the name printed in report lines.
func (t Tool) Label() string {
	switch t {
	case ToolGlycemia:
		return "Glycemia"
	case ToolCervicalCollar:
		return "Cervical collar decision"
	case ToolNIHSS:
		return "NIHSS"
	case ToolGlasgow:
		return "Glasgow"
	case ToolInterventionSheet:
		return "Intervention sheet"
	case ToolAPGAR:
		return "APGAR"
	case ToolFramingham:
		return "Cardiac risk"
	case ToolBMI:
		return "BMI"
	case ToolClearance:
		return "Creatinine clearance"
	case ToolReferenceRanges:
		return "Normal values"
	}
	return string(t)
}

// CalculationRecord is the persisted trace of one calculation. Inputs
// hold the request payload as JSON.
type CalculationRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Tool           Tool       `gorm:"column:tool;type:varchar(40);not null;index" json:"tool"`
	Inputs         string     `gorm:"column:inputs;type:jsonb" json:"inputs"`
	Value          string     `gorm:"column:value;type:varchar(100);not null" json:"value"`
	Interpretation string     `gorm:"column:interpretation;type:varchar(100);not null" json:"interpretation"`
	SessionID      *uuid.UUID `gorm:"column:session_id;type:uuid;index" json:"session_id,omitempty"`

	Operator string `gorm:"column:operator;type:varchar(100)" json:"operator,omitempty"`
}

func (CalculationRecord) TableName() string {
	return "nexus.calculation_records"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	Subject string `json:"sub"`
	Role    Role   `json:"role"`
}
