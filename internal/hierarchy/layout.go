package hierarchy

import "github.com/collectivites/m57/internal/aggregate"

// Section names of the assembled tree.
const (
	Operating     = "operating"
	Investment    = "investment"
	SelfFinancing = "self_financing"
	Debt          = "debt"
	BalanceSheet  = "balance_sheet"
)

// Sections lists the section names in presentation order.
var Sections = []string{Operating, Investment, SelfFinancing, Debt, BalanceSheet}

type slot struct {
	name    string
	key     aggregate.Key
	code    string
	desc    string
	details []slot
}

type sectionLayout struct {
	name  string
	slots []slot
}

var layout = []sectionLayout{
	{name: Operating, slots: []slot{
		{name: "total_revenue", key: aggregate.TotalRevenue, code: "A",
			desc: "Net credits of class 7 less net debits of internal-order accounts (709 to 799)"},
		{name: "caf_revenue", key: aggregate.CAFRevenue, code: "A1",
			desc: "Net flow of accounts 70, 71, 72, 73, 74, 75 (except 75882), 76, 77 (except 775, 776, 777) and 79, internal-order accounts excluded",
			details: []slot{
				{name: "local_taxes", key: aggregate.LocalTaxes,
					desc: "Credits of 7311, 7318, 73221 less debits of 739111, 739115, 739221"},
				{name: "redistributed_taxation", key: aggregate.RedistributedTaxation,
					desc: "Credits of 73211, 73212 less debits of 739211, 739212"},
				{name: "other_taxes", key: aggregate.OtherTaxes,
					desc: "Credits of 7312, 7313, 7314, 7315, 7317, 732 (except 73211, 73212, 73221), 733, 734, 735, 738 less debits of 739 (except 739111, 739115, 739211, 739212, 739221)"},
				{name: "global_operating_grant", key: aggregate.GlobalOperatingGrant,
					desc: "Credits of 741"},
				{name: "other_grants", key: aggregate.OtherGrants,
					desc: "Credits of 74 except 741",
					details: []slot{
						{name: "fctva", key: aggregate.OperatingFCTVA, desc: "Credits of 744"},
					}},
				{name: "service_revenue", key: aggregate.ServiceRevenue,
					desc: "Credits of 70"},
			}},
		{name: "total_expense", key: aggregate.TotalExpense, code: "B",
			desc: "Net debits of class 6 less net credits of internal-order accounts (609 to 699)"},
		{name: "caf_expense", key: aggregate.CAFExpense, code: "B1",
			desc: "Net debits of accounts 60, 61, 62, 63, 64, 65 (except 65882), 66, 67 (except 675, 676), internal-order accounts excluded",
			details: []slot{
				{name: "personnel_costs", key: aggregate.PersonnelCosts,
					desc: "Debits of 621, 631, 633, 64 less credits of 6219, 6319, 6339, 649"},
				{name: "external_purchases", key: aggregate.ExternalPurchases,
					desc: "Debits of 60, 61, 62 (except 621) less credits of 609, 619, 629 (except 6219)"},
				{name: "financial_charges", key: aggregate.FinancialCharges,
					desc: "Debits of 66"},
				{name: "contingents", key: aggregate.Contingents,
					desc: "Debits of 655"},
				{name: "subsidies_paid", key: aggregate.SubsidiesPaid,
					desc: "Debits of 657"},
			}},
		{name: "accounting_result", key: aggregate.AccountingResult, code: "A-B",
			desc: "Total operating revenue (A) less total operating expense (B)"},
	}},
	{name: Investment, slots: []slot{
		{name: "total_resources", key: aggregate.TotalResources, code: "C",
			desc: "Credits of 10 (except 10229, 1027, 1069), 13 (except 139), 15, 16 (except 1688), 18, 19 (except 193), 20, 21, 22 (except 229), 23, 26, 27 (except 2768), 28, 29, 3 (except 32, 37, 3911, 392, 3931, 3941, 39511, 39551, 397), 4541, 45611, 45621, 4581, 481, 49 (except 4911, 4961), 59 (except 59061, 59081, 5951)",
			details: []slot{
				{name: "bank_loans", key: aggregate.BankLoans,
					desc: "Credits of 163, 164 (except 16449, 1645), 1671, 1672, 1675, 1678, 1681, 1682"},
				{name: "grants_received", key: aggregate.GrantsReceived,
					desc: "Credits of 13 (except 139)"},
				{name: "development_tax", key: aggregate.DevelopmentTax,
					desc: "Credits of 10226"},
				{name: "fctva", key: aggregate.InvestmentFCTVA,
					desc: "Credits of 10222"},
				{name: "returned_assets", key: aggregate.ReturnedAssets,
					desc: "Credits of 18, 22 (except 229)"},
			}},
		{name: "total_uses", key: aggregate.TotalUses, code: "D",
			desc: "Debits of 10 (except 1027, 1069), 13, 15, 16 (except 1688), 18, 19 (except 193), 20, 21, 22 (except 229), 23, 26, 27 (except 2768), 28, 29, 3 (except 32, 37, 3911, 392, 3931, 3941, 39511, 39551, 397), 4542, 45612, 45622, 4582, 481, 49 (except 4911, 4961), 59 (except 59061, 59081, 5951)",
			details: []slot{
				{name: "equipment_expenditure", key: aggregate.EquipmentExpenditure,
					desc: "Debits of 20, 21, 23 less credits of 237, 238"},
				{name: "debt_repayment", key: aggregate.DebtRepayment,
					desc: "Debits of 163, 164 (except 16449, 1645), 1671, 1672, 1675, 1678, 1681, 1682"},
				{name: "deferred_charges", key: aggregate.DeferredCharges,
					desc: "Debits of 481"},
				{name: "assigned_assets", key: aggregate.AssignedAssets,
					desc: "Debits of 18, 22 (except 229)"},
			}},
		{name: "residual_financing_need", key: aggregate.ResidualFinancingNeed, code: "D-C",
			desc: "Total investment uses (D) less total investment resources (C)"},
		{name: "third_party_operations", key: aggregate.ThirdPartyOperations,
			desc: "Debits of 4541, 45611, 45621, 4581 less credits of 4542, 45612, 45622, 4582"},
		{name: "financing_need", key: aggregate.FinancingNeed, code: "E",
			desc: "Residual financing need (D-C) plus third-party operations balance"},
		{name: "overall_result", key: aggregate.OverallResult, code: "R-E",
			desc: "Accounting result (A-B) less investment financing need (E)"},
	}},
	{name: SelfFinancing, slots: []slot{
		{name: "gross_operating_surplus", key: aggregate.GrossOperatingSurplus, code: "EBF",
			desc: "Net flow of accounts 70 to 75 plus net flow of accounts 60 to 65"},
		{name: "caf_gross", key: aggregate.CAFGross, code: "CAF brute",
			desc: "CAF-eligible revenue (A1) less CAF-eligible expense (B1)"},
		{name: "caf_net", key: aggregate.CAFNet, code: "CAF nette",
			desc: "Gross self-financing capacity less debt principal repayment"},
	}},
	{name: Debt, slots: []slot{
		{name: "total_stock", key: aggregate.TotalDebtStock,
			desc: "Credit balance of 16 (except 166, 1688, 169) at year end"},
		{name: "bank_stock", key: aggregate.BankDebtStock,
			desc: "Credit balance of 163, 164, 167 (except 1676), 1681, 1682"},
		{name: "bank_stock_net", key: aggregate.BankDebtStockNet,
			desc: "Bank debt stock less debit balance of 44121 (structured loans support fund)"},
		{name: "annuity", key: aggregate.DebtAnnuity,
			desc: "Debits of 6611 plus debt principal repayment",
			details: []slot{
				{name: "interest_expense", key: aggregate.InterestExpense, desc: "Debits of 6611"},
				{name: "debt_repayment", key: aggregate.DebtRepayment, desc: "Debt principal repayment"},
			}},
	}},
	{name: BalanceSheet, slots: []slot{
		{name: "working_capital", key: aggregate.WorkingCapital,
			desc: "Debit less credit balances of classes 3, 4, 5 (except 39, 49, 454, 455, 458, 481, 59) less credit balance of 269, 279, 1688"},
	}},
}
