package nomenclature

import "github.com/collectivites/m57/internal/model"

// DefaultChart returns the classes and the most used accounts of the M57
// nomenclature. Workspaces may replace it with the full official chart.
func DefaultChart() []model.Account {
	return []model.Account{
		{Code: "1", Label: "Comptes de capitaux"},
		{Code: "10", Label: "Dotations, fonds divers et réserves"},
		{Code: "10222", Label: "FCTVA"},
		{Code: "10226", Label: "Taxe d'aménagement"},
		{Code: "13", Label: "Subventions d'investissement"},
		{Code: "16", Label: "Emprunts et dettes assimilées"},
		{Code: "1641", Label: "Emprunts en euros"},
		{Code: "2", Label: "Comptes d'immobilisations"},
		{Code: "20", Label: "Immobilisations incorporelles"},
		{Code: "204", Label: "Subventions d'équipement versées"},
		{Code: "21", Label: "Immobilisations corporelles"},
		{Code: "23", Label: "Immobilisations en cours"},
		{Code: "3", Label: "Comptes de stocks et en-cours"},
		{Code: "4", Label: "Comptes de tiers"},
		{Code: "40", Label: "Fournisseurs et comptes rattachés"},
		{Code: "41", Label: "Redevables et comptes rattachés"},
		{Code: "44121", Label: "Fonds de soutien aux emprunts à risque"},
		{Code: "454", Label: "Travaux effectués d'office pour le compte de tiers"},
		{Code: "5", Label: "Comptes financiers"},
		{Code: "515", Label: "Compte au Trésor"},
		{Code: "6", Label: "Comptes de charges"},
		{Code: "60", Label: "Achats et variation des stocks"},
		{Code: "61", Label: "Services extérieurs"},
		{Code: "62", Label: "Autres services extérieurs"},
		{Code: "63", Label: "Impôts, taxes et versements assimilés"},
		{Code: "64", Label: "Charges de personnel"},
		{Code: "65", Label: "Autres charges de gestion courante"},
		{Code: "655", Label: "Contingents et participations obligatoires"},
		{Code: "657", Label: "Subventions de fonctionnement versées"},
		{Code: "66", Label: "Charges financières"},
		{Code: "6611", Label: "Intérêts réglés à l'échéance"},
		{Code: "67", Label: "Charges spécifiques"},
		{Code: "68", Label: "Dotations aux amortissements et provisions"},
		{Code: "7", Label: "Comptes de produits"},
		{Code: "70", Label: "Produits des services, du domaine et ventes diverses"},
		{Code: "73", Label: "Impôts et taxes"},
		{Code: "7311", Label: "Impôts locaux"},
		{Code: "73211", Label: "Attribution de compensation"},
		{Code: "73212", Label: "Dotation de solidarité communautaire"},
		{Code: "74", Label: "Dotations et participations"},
		{Code: "741", Label: "Dotation globale de fonctionnement"},
		{Code: "744", Label: "FCTVA"},
		{Code: "75", Label: "Autres produits de gestion courante"},
		{Code: "76", Label: "Produits financiers"},
		{Code: "77", Label: "Produits spécifiques"},
		{Code: "78", Label: "Reprises sur amortissements et provisions"},
	}
}
