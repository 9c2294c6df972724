package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/collectivites/m57/internal/classify"
)

var p = classify.Prefixes

// Account rules shared by several formulas.
var (
	revenueInternalOrder = p(classify.InternalOrder('7')...)
	expenseInternalOrder = p(classify.InternalOrder('6')...)

	cafRevenueRule = p("70", "71", "72", "73", "74", "75", "76", "77", "79").
			Except("75882", "775", "776", "777").
			Except(classify.InternalOrder('7')...)
	cafExpenseRule = p("60", "61", "62", "63", "64", "65", "66", "67").
			Except("65882", "675", "676").
			Except(classify.InternalOrder('6')...)

	investmentExclusions = []string{
		"1027", "1069", "1688", "193", "229", "2768", "32", "37", "3911", "392",
		"3931", "3941", "39511", "39551", "397", "4911", "4961", "59061", "59081", "5951",
	}
	resourcesRule = p("10", "13", "15", "16", "18", "19", "20", "21", "22", "23", "26", "27", "28", "29",
		"3", "4541", "45611", "45621", "4581", "481", "49", "59").
		Except(investmentExclusions...).
		Except("10229", "139")
	usesRule = p("10", "13", "15", "16", "18", "19", "20", "21", "22", "23", "26", "27", "28", "29",
		"3", "4542", "45612", "45622", "4582", "481", "49", "59").
		Except(investmentExclusions...)

	bankLoansRule = p("163", "164", "1671", "1672", "1675", "1678", "1681", "1682").
			Except("16449", "1645")
	assignedAssetsRule = p("18", "22").Except("229")
)

// formula computes one aggregate. It may read the ledger through the Summer
// and the values of its declared dependencies, never any other value.
type formula struct {
	key  Key
	deps []Key
	eval func(s *Summer, v Values) decimal.Decimal
}

func leaf(key Key, eval func(s *Summer) decimal.Decimal) formula {
	return formula{key: key, eval: func(s *Summer, _ Values) decimal.Decimal { return eval(s) }}
}

func derived(key Key, deps []Key, eval func(v Values) decimal.Decimal) formula {
	return formula{key: key, deps: deps, eval: func(_ *Summer, v Values) decimal.Decimal { return eval(v) }}
}

// formulas is declared in reading order; evaluation order comes from deps.
var formulas = []formula{
	// Operating revenue.
	leaf(TotalRevenue, func(s *Summer) decimal.Decimal {
		return s.Credits(p("7")).Sub(s.Debits(revenueInternalOrder))
	}),
	leaf(CAFRevenue, func(s *Summer) decimal.Decimal {
		return s.Flow(cafRevenueRule)
	}),
	leaf(LocalTaxes, func(s *Summer) decimal.Decimal {
		return s.Credits(p("7311", "7318", "73221")).Sub(s.Debits(p("739111", "739115", "739221")))
	}),
	leaf(RedistributedTaxation, func(s *Summer) decimal.Decimal {
		return s.Credits(p("73211", "73212")).Sub(s.Debits(p("739211", "739212")))
	}),
	leaf(OtherTaxes, func(s *Summer) decimal.Decimal {
		credits := s.Credits(p("7312", "7313", "7314", "7315", "7317", "732", "733", "734", "735", "738").
			Except("73211", "73212", "73221"))
		debits := s.Debits(p("739").Except("739111", "739115", "739211", "739212", "739221"))
		return credits.Sub(debits)
	}),
	leaf(GlobalOperatingGrant, func(s *Summer) decimal.Decimal {
		return s.Credits(p("741"))
	}),
	leaf(OtherGrants, func(s *Summer) decimal.Decimal {
		return s.Credits(p("74").Except("741"))
	}),
	leaf(OperatingFCTVA, func(s *Summer) decimal.Decimal {
		return s.Credits(p("744"))
	}),
	leaf(ServiceRevenue, func(s *Summer) decimal.Decimal {
		return s.Credits(p("70"))
	}),

	// Operating expense.
	leaf(TotalExpense, func(s *Summer) decimal.Decimal {
		return s.Debits(p("6")).Sub(s.Credits(expenseInternalOrder))
	}),
	leaf(CAFExpense, func(s *Summer) decimal.Decimal {
		return s.Flow(cafExpenseRule).Neg()
	}),
	leaf(PersonnelCosts, func(s *Summer) decimal.Decimal {
		return s.Debits(p("621", "631", "633", "64")).Sub(s.Credits(p("6219", "6319", "6339", "649")))
	}),
	leaf(ExternalPurchases, func(s *Summer) decimal.Decimal {
		return s.Debits(p("60", "61", "62").Except("621")).Sub(s.Credits(p("609", "619", "629").Except("6219")))
	}),
	leaf(FinancialCharges, func(s *Summer) decimal.Decimal {
		return s.Debits(p("66"))
	}),
	leaf(Contingents, func(s *Summer) decimal.Decimal {
		return s.Debits(p("655"))
	}),
	leaf(SubsidiesPaid, func(s *Summer) decimal.Decimal {
		return s.Debits(p("657"))
	}),
	derived(AccountingResult, []Key{TotalRevenue, TotalExpense}, func(v Values) decimal.Decimal {
		return v.Get(TotalRevenue).Sub(v.Get(TotalExpense))
	}),

	// Investment resources.
	leaf(TotalResources, func(s *Summer) decimal.Decimal {
		return s.Credits(resourcesRule)
	}),
	leaf(BankLoans, func(s *Summer) decimal.Decimal {
		return s.Credits(bankLoansRule)
	}),
	leaf(GrantsReceived, func(s *Summer) decimal.Decimal {
		return s.Credits(p("13").Except("139"))
	}),
	leaf(DevelopmentTax, func(s *Summer) decimal.Decimal {
		return s.Credits(p("10226"))
	}),
	leaf(InvestmentFCTVA, func(s *Summer) decimal.Decimal {
		return s.Credits(p("10222"))
	}),
	leaf(ReturnedAssets, func(s *Summer) decimal.Decimal {
		return s.Credits(assignedAssetsRule)
	}),

	// Investment uses.
	leaf(TotalUses, func(s *Summer) decimal.Decimal {
		return s.Debits(usesRule)
	}),
	leaf(EquipmentExpenditure, func(s *Summer) decimal.Decimal {
		return s.Debits(p("20", "21", "23")).Sub(s.Credits(p("237", "238")))
	}),
	leaf(DebtRepayment, func(s *Summer) decimal.Decimal {
		return s.Debits(bankLoansRule)
	}),
	leaf(DeferredCharges, func(s *Summer) decimal.Decimal {
		return s.Debits(p("481"))
	}),
	leaf(AssignedAssets, func(s *Summer) decimal.Decimal {
		return s.Debits(assignedAssetsRule)
	}),
	derived(ResidualFinancingNeed, []Key{TotalUses, TotalResources}, func(v Values) decimal.Decimal {
		return v.Get(TotalUses).Sub(v.Get(TotalResources))
	}),
	leaf(ThirdPartyOperations, func(s *Summer) decimal.Decimal {
		return s.Debits(p("4541", "45611", "45621", "4581")).Sub(s.Credits(p("4542", "45612", "45622", "4582")))
	}),
	derived(FinancingNeed, []Key{ResidualFinancingNeed, ThirdPartyOperations}, func(v Values) decimal.Decimal {
		return v.Get(ResidualFinancingNeed).Add(v.Get(ThirdPartyOperations))
	}),
	derived(OverallResult, []Key{AccountingResult, FinancingNeed}, func(v Values) decimal.Decimal {
		return v.Get(AccountingResult).Sub(v.Get(FinancingNeed))
	}),

	// Self-financing.
	leaf(GrossOperatingSurplus, func(s *Summer) decimal.Decimal {
		return s.Flow(p("70", "71", "72", "73", "74", "75")).Add(s.Flow(p("60", "61", "62", "63", "64", "65")))
	}),
	derived(CAFGross, []Key{CAFRevenue, CAFExpense}, func(v Values) decimal.Decimal {
		return v.Get(CAFRevenue).Sub(v.Get(CAFExpense))
	}),
	derived(CAFNet, []Key{CAFGross, DebtRepayment}, func(v Values) decimal.Decimal {
		return v.Get(CAFGross).Sub(v.Get(DebtRepayment))
	}),

	// Debt.
	leaf(TotalDebtStock, func(s *Summer) decimal.Decimal {
		return s.CreditBalance(p("16").Except("166", "1688", "169"))
	}),
	leaf(BankDebtStock, func(s *Summer) decimal.Decimal {
		return s.CreditBalance(p("163", "164", "167", "1681", "1682").Except("1676"))
	}),
	{
		// Net of the support fund aid for structured loans (44121).
		key:  BankDebtStockNet,
		deps: []Key{BankDebtStock},
		eval: func(s *Summer, v Values) decimal.Decimal {
			return v.Get(BankDebtStock).Sub(s.DebitBalance(p("44121")))
		},
	},
	leaf(InterestExpense, func(s *Summer) decimal.Decimal {
		return s.Debits(p("6611"))
	}),
	derived(DebtAnnuity, []Key{InterestExpense, DebtRepayment}, func(v Values) decimal.Decimal {
		return v.Get(InterestExpense).Add(v.Get(DebtRepayment))
	}),

	// Balance sheet.
	leaf(WorkingCapital, func(s *Summer) decimal.Decimal {
		net := s.NetBalance(p("3", "4", "5").Except("39", "49", "454", "455", "458", "481", "59"))
		return net.Sub(s.CreditBalance(p("269", "279", "1688")))
	}),
}
