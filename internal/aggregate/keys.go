package aggregate

// Key names one computed aggregate. Keys are stable: reports and the tree
// layout refer to them.
type Key string

// Operating section.
const (
	TotalRevenue          Key = "total_revenue"
	CAFRevenue            Key = "caf_revenue"
	LocalTaxes            Key = "local_taxes"
	RedistributedTaxation Key = "redistributed_taxation"
	OtherTaxes            Key = "other_taxes"
	GlobalOperatingGrant  Key = "global_operating_grant"
	OtherGrants           Key = "other_grants"
	OperatingFCTVA        Key = "operating_fctva"
	ServiceRevenue        Key = "service_revenue"
	TotalExpense          Key = "total_expense"
	CAFExpense            Key = "caf_expense"
	PersonnelCosts        Key = "personnel_costs"
	ExternalPurchases     Key = "external_purchases"
	FinancialCharges      Key = "financial_charges"
	Contingents           Key = "contingents"
	SubsidiesPaid         Key = "subsidies_paid"
	AccountingResult      Key = "accounting_result"
)

// Investment section.
const (
	TotalResources        Key = "total_resources"
	BankLoans             Key = "bank_loans"
	GrantsReceived        Key = "grants_received"
	DevelopmentTax        Key = "development_tax"
	InvestmentFCTVA       Key = "investment_fctva"
	ReturnedAssets        Key = "returned_assets"
	TotalUses             Key = "total_uses"
	EquipmentExpenditure  Key = "equipment_expenditure"
	DebtRepayment         Key = "debt_repayment"
	DeferredCharges       Key = "deferred_charges"
	AssignedAssets        Key = "assigned_assets"
	ResidualFinancingNeed Key = "residual_financing_need"
	ThirdPartyOperations  Key = "third_party_operations"
	FinancingNeed         Key = "financing_need"
	OverallResult         Key = "overall_result"
)

// Self-financing, debt and balance sheet sections.
const (
	GrossOperatingSurplus Key = "gross_operating_surplus"
	CAFGross              Key = "caf_gross"
	CAFNet                Key = "caf_net"

	TotalDebtStock   Key = "total_debt_stock"
	BankDebtStock    Key = "bank_debt_stock"
	BankDebtStockNet Key = "bank_debt_stock_net"
	InterestExpense  Key = "interest_expense"
	DebtAnnuity      Key = "debt_annuity"

	WorkingCapital Key = "working_capital"
)
