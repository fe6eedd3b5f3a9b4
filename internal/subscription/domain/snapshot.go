// Package domain describes subscription snapshots as the billing system
// returns them and the ports used to fetch and store them.
package domain

import "time"

// Snapshot is one subscription version in the billing system's REST shape.
// Dates are kept as YYYY-MM-DD strings until normalization.
type Snapshot struct {
	Success                bool       `json:"success,omitempty"`
	ID                     string     `json:"id" validate:"required"`
	SubscriptionNumber     string     `json:"subscriptionNumber"`
	AccountName            string     `json:"accountName,omitempty"`
	AccountNumber          string     `json:"accountNumber,omitempty"`
	Status                 string     `json:"status"`
	Version                int        `json:"version,omitempty"`
	AutoRenew              bool       `json:"autoRenew"`
	TermStartDate          string     `json:"termStartDate" validate:"required"`
	TermEndDate            string     `json:"termEndDate" validate:"required"`
	CurrentTerm            int        `json:"currentTerm,omitempty"`
	CurrentTermPeriodType  string     `json:"currentTermPeriodType,omitempty"`
	ContractEffectiveDate  string     `json:"contractEffectiveDate,omitempty"`
	SubscriptionStartDate  string     `json:"subscriptionStartDate,omitempty"`
	CustomerAcceptanceDate string     `json:"customerAcceptanceDate,omitempty"`
	ActivationDate         string     `json:"ActivationDate__c,omitempty"`
	ReaderType             string     `json:"ReaderType__c,omitempty"`
	InitialPromotionCode   string     `json:"InitialPromotionCode__c,omitempty"`
	PromotionCode          string     `json:"PromotionCode__c,omitempty"`
	SupplierCode           string     `json:"SupplierCode__c,omitempty"`
	RatePlans              []RatePlan `json:"ratePlans"`
}

type RatePlan struct {
	ID              string   `json:"id" validate:"required"`
	RatePlanName    string   `json:"ratePlanName"`
	ProductName     string   `json:"productName"`
	LastChangeType  string   `json:"lastChangeType,omitempty"`
	RatePlanCharges []Charge `json:"ratePlanCharges"`
}

type Charge struct {
	ID                 string   `json:"id" validate:"required"`
	Name               string   `json:"name"`
	Model              string   `json:"model,omitempty"`
	EffectiveStartDate string   `json:"effectiveStartDate" validate:"required"`
	EffectiveEndDate   string   `json:"effectiveEndDate" validate:"required"`
	ChargedThroughDate string   `json:"chargedThroughDate,omitempty"`
	HolidayStart       string   `json:"HolidayStart__c,omitempty"`
	HolidayEnd         string   `json:"HolidayEnd__c,omitempty"`
	Price              *float64 `json:"price"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Currency           string   `json:"currency,omitempty"`
	BillingPeriod      string   `json:"billingPeriod,omitempty"`
	EndDateCondition   string   `json:"endDateCondition,omitempty"`
	Version            int      `json:"version,omitempty"`
}

// Matches reports whether key names this subscription by id or number.
func (s *Snapshot) Matches(key string) bool {
	return key != "" && (s.ID == key || s.SubscriptionNumber == key)
}

type Origin string

const (
	OriginFixture    Origin = "fixture"
	OriginCache      Origin = "cache"
	OriginBillingAPI Origin = "billing_api"
	OriginRequest    Origin = "request"
)

// Resolved is a snapshot together with where it came from.
type Resolved struct {
	Snapshot  *Snapshot
	Origin    Origin
	FetchedAt time.Time
}
