// Package taxonomy holds the closed Personal Finance Category (PFC) table:
// 16 primary categories, 104 detailed categories. It is the validation source
// of truth for mapping entries and the keyword fallback categorizer.
package taxonomy

import "sort"

// descriptions maps every detailed category to a human-readable description,
// grouped under its primary category. The double map is the closed taxonomy:
// a (primary, detailed) pair is valid iff it is present here.
var descriptions = map[string]map[string]string{
	"BANK_FEES": {
		"BANK_FEES_ATM_FEES":                 "ATM fees and surcharges",
		"BANK_FEES_FOREIGN_TRANSACTION_FEES": "Foreign transaction and currency conversion fees",
		"BANK_FEES_INSUFFICIENT_FUNDS":       "NSF and insufficient funds fees",
		"BANK_FEES_INTEREST_CHARGE":          "Interest charges on credit cards and loans",
		"BANK_FEES_OVERDRAFT_FEES":           "Overdraft and courtesy pay fees",
		"BANK_FEES_OTHER_BANK_FEES":          "Other banking fees and charges",
	},
	"ENTERTAINMENT": {
		"ENTERTAINMENT_CASINOS_AND_GAMBLING":                        "Casinos, gambling, and sports betting",
		"ENTERTAINMENT_MUSIC_AND_AUDIO":                             "Music streaming, concerts, and audio services",
		"ENTERTAINMENT_SPORTING_EVENTS_AMUSEMENT_PARKS_AND_MUSEUMS": "Sports events, theme parks, museums, and attractions",
		"ENTERTAINMENT_TV_AND_MOVIES":                               "Streaming services, movie theaters, and video content",
		"ENTERTAINMENT_VIDEO_GAMES":                                 "Gaming platforms, video games, and gaming services",
		"ENTERTAINMENT_OTHER_ENTERTAINMENT":                         "Other entertainment and recreational activities",
	},
	"FOOD_AND_DRINK": {
		"FOOD_AND_DRINK_BEER_WINE_AND_LIQUOR": "Alcoholic beverages and liquor stores",
		"FOOD_AND_DRINK_COFFEE":               "Coffee shops, cafes, and coffee-related purchases",
		"FOOD_AND_DRINK_FAST_FOOD":            "Fast food chains and quick service restaurants",
		"FOOD_AND_DRINK_GROCERIES":            "Grocery stores and food shopping",
		"FOOD_AND_DRINK_RESTAURANT":           "Full-service restaurants and dining",
		"FOOD_AND_DRINK_VENDING_MACHINES":     "Vending machines and automated food services",
		"FOOD_AND_DRINK_OTHER_FOOD_AND_DRINK": "Other food and beverage purchases",
	},
	"GENERAL_MERCHANDISE": {
		"GENERAL_MERCHANDISE_BOOKSTORES_AND_NEWSSTANDS":     "Bookstores, newsstands, and magazine retailers",
		"GENERAL_MERCHANDISE_CLOTHING_AND_ACCESSORIES":      "Clothing stores, fashion retailers, and accessories",
		"GENERAL_MERCHANDISE_CONVENIENCE_STORES":            "Convenience stores and gas station marts",
		"GENERAL_MERCHANDISE_DEPARTMENT_STORES":             "Department stores and multi-category retailers",
		"GENERAL_MERCHANDISE_DISCOUNT_STORES":               "Discount stores, dollar stores, and outlet retailers",
		"GENERAL_MERCHANDISE_ELECTRONICS":                   "Electronics stores and technology retailers",
		"GENERAL_MERCHANDISE_GIFTS_AND_NOVELTIES":           "Gift shops, novelty stores, and specialty items",
		"GENERAL_MERCHANDISE_OFFICE_SUPPLIES":               "Office supply stores and business equipment",
		"GENERAL_MERCHANDISE_ONLINE_MARKETPLACES":           "E-commerce platforms and online retailers",
		"GENERAL_MERCHANDISE_PET_SUPPLIES":                  "Pet stores and animal supply retailers",
		"GENERAL_MERCHANDISE_SPORTING_GOODS":                "Sporting goods stores and outdoor equipment",
		"GENERAL_MERCHANDISE_SUPERSTORES":                   "Big box stores, warehouse clubs, and superstores",
		"GENERAL_MERCHANDISE_TOBACCO_AND_VAPE":              "Tobacco shops, smoke shops, and vaping supplies",
		"GENERAL_MERCHANDISE_OTHER_GENERAL_MERCHANDISE":     "Other general retail and merchandise stores",
	},
	"GENERAL_SERVICES": {
		"GENERAL_SERVICES_ACCOUNTING_AND_FINANCIAL_PLANNING": "Accounting, tax preparation, and financial planning services",
		"GENERAL_SERVICES_AUTOMOTIVE":                        "Auto repair, maintenance, and automotive services",
		"GENERAL_SERVICES_CHILDCARE":                         "Childcare, daycare, and child-related services",
		"GENERAL_SERVICES_CONSULTING_AND_LEGAL":              "Consulting, legal services, and professional advice",
		"GENERAL_SERVICES_EDUCATION":                         "Educational services, training, and academic institutions",
		"GENERAL_SERVICES_INSURANCE":                         "Insurance companies and insurance-related services",
		"GENERAL_SERVICES_POSTAGE_AND_SHIPPING":              "Shipping, mailing, and postage services",
		"GENERAL_SERVICES_STORAGE":                           "Storage facilities and self-storage services",
		"GENERAL_SERVICES_OTHER_GENERAL_SERVICES":            "Other professional and general services",
	},
	"GOVERNMENT_AND_NON_PROFIT": {
		"GOVERNMENT_AND_NON_PROFIT_DONATIONS":                           "Charitable donations and religious contributions",
		"GOVERNMENT_AND_NON_PROFIT_GOVERNMENT_DEPARTMENTS_AND_AGENCIES": "Government departments, agencies, and public services",
		"GOVERNMENT_AND_NON_PROFIT_TAX_PAYMENT":                         "Tax payments and government revenue collections",
		"GOVERNMENT_AND_NON_PROFIT_OTHER_GOVERNMENT_AND_NON_PROFIT":     "Other government and non-profit organizations",
	},
	"HOME_IMPROVEMENT": {
		"HOME_IMPROVEMENT_FURNITURE":              "Furniture stores and home furnishing retailers",
		"HOME_IMPROVEMENT_HARDWARE":               "Hardware stores, building supplies, and construction materials",
		"HOME_IMPROVEMENT_REPAIR_AND_MAINTENANCE": "Home repair, maintenance, and improvement services",
		"HOME_IMPROVEMENT_SECURITY":               "Home security systems and monitoring services",
		"HOME_IMPROVEMENT_OTHER_HOME_IMPROVEMENT": "Other home improvement and property-related services",
	},
	"INCOME": {
		"INCOME_DIVIDENDS":          "Investment dividends and distribution payments",
		"INCOME_INTEREST_EARNED":    "Interest earned on savings and investment accounts",
		"INCOME_RETIREMENT_PENSION": "Retirement benefits, pension payments, and social security",
		"INCOME_TAX_REFUND":         "Tax refunds and government refund payments",
		"INCOME_UNEMPLOYMENT":       "Unemployment benefits and unemployment insurance",
		"INCOME_WAGES":              "Wages, salaries, and employment income",
		"INCOME_OTHER_INCOME":       "Other income sources and miscellaneous earnings",
	},
	"LOAN_PAYMENTS": {
		"LOAN_PAYMENTS_CAR_PAYMENT":           "Auto loans, car payments, and vehicle financing",
		"LOAN_PAYMENTS_CREDIT_CARD_PAYMENT":   "Credit card payments and credit account payments",
		"LOAN_PAYMENTS_MORTGAGE_PAYMENT":      "Mortgage payments and home loan payments",
		"LOAN_PAYMENTS_PERSONAL_LOAN_PAYMENT": "Personal loans and unsecured debt payments",
		"LOAN_PAYMENTS_STUDENT_LOAN_PAYMENT":  "Student loan payments and educational debt",
		"LOAN_PAYMENTS_OTHER_PAYMENT":         "Other loan payments and debt obligations",
	},
	"MEDICAL": {
		"MEDICAL_DENTAL_CARE":                 "Dental care, orthodontics, and oral health services",
		"MEDICAL_EYE_CARE":                    "Eye care, vision services, and optical retailers",
		"MEDICAL_NURSING_CARE":                "Nursing care, assisted living, and care facilities",
		"MEDICAL_PHARMACIES_AND_SUPPLEMENTS":  "Pharmacies, medications, and health supplements",
		"MEDICAL_PRIMARY_CARE":                "Primary care, medical services, and healthcare providers",
		"MEDICAL_VETERINARY_SERVICES":         "Veterinary services and animal healthcare",
		"MEDICAL_OTHER_MEDICAL":               "Other medical services and healthcare-related expenses",
	},
	"PERSONAL_CARE": {
		"PERSONAL_CARE_GYMS_AND_FITNESS_CENTERS": "Gyms, fitness centers, and exercise facilities",
		"PERSONAL_CARE_HAIR_AND_BEAUTY":          "Hair salons, beauty services, and cosmetic retailers",
		"PERSONAL_CARE_LAUNDRY_AND_DRY_CLEANING": "Laundry services, dry cleaning, and garment care",
		"PERSONAL_CARE_OTHER_PERSONAL_CARE":      "Other personal care services and wellness activities",
	},
	"RENT_AND_UTILITIES": {
		"RENT_AND_UTILITIES_GAS_AND_ELECTRICITY":         "Gas and electric utilities and energy services",
		"RENT_AND_UTILITIES_INTERNET_AND_CABLE":          "Internet, cable, and telecommunications services",
		"RENT_AND_UTILITIES_RENT":                        "Rent payments and housing rental costs",
		"RENT_AND_UTILITIES_SEWAGE_AND_WASTE_MANAGEMENT": "Sewage, waste management, and sanitation services",
		"RENT_AND_UTILITIES_TELEPHONE":                   "Telephone services and mobile phone carriers",
		"RENT_AND_UTILITIES_WATER":                       "Water utilities and municipal water services",
		"RENT_AND_UTILITIES_OTHER_UTILITIES":             "Other utilities and municipal services",
	},
	"TRANSFER_IN": {
		"TRANSFER_IN_CASH_ADVANCES_AND_LOANS":           "Cash advances, loans, and credit line transfers",
		"TRANSFER_IN_DEPOSIT":                           "Deposits, check deposits, and account funding",
		"TRANSFER_IN_INVESTMENT_AND_RETIREMENT_FUNDS":   "Investment transfers and retirement fund contributions",
		"TRANSFER_IN_SAVINGS":                           "Savings account transfers and savings deposits",
		"TRANSFER_IN_ACCOUNT_TRANSFER":                  "Account transfers and inter-bank transfers",
		"TRANSFER_IN_OTHER_TRANSFER_IN":                 "Other inbound transfers and credits",
	},
	"TRANSFER_OUT": {
		"TRANSFER_OUT_INVESTMENT_AND_RETIREMENT_FUNDS": "Investment account transfers and retirement contributions",
		"TRANSFER_OUT_SAVINGS":                         "Savings account transfers and emergency fund contributions",
		"TRANSFER_OUT_WITHDRAWAL":                      "ATM withdrawals and cash withdrawals",
		"TRANSFER_OUT_ACCOUNT_TRANSFER":                "Account transfers and outbound bank transfers",
		"TRANSFER_OUT_OTHER_TRANSFER_OUT":              "Other outbound transfers and debits",
	},
	"TRANSPORTATION": {
		"TRANSPORTATION_BIKES_AND_SCOOTERS":    "Bike rentals, scooter services, and micro-mobility",
		"TRANSPORTATION_GAS":                   "Gasoline, fuel, and gas station purchases",
		"TRANSPORTATION_PARKING":               "Parking fees, garage fees, and parking services",
		"TRANSPORTATION_PUBLIC_TRANSIT":        "Public transportation, buses, trains, and transit systems",
		"TRANSPORTATION_TAXIS_AND_RIDE_SHARES": "Taxi services, ride-sharing, and transportation apps",
		"TRANSPORTATION_TOLLS":                 "Toll roads, bridge tolls, and electronic toll collection",
		"TRANSPORTATION_OTHER_TRANSPORTATION":  "Other transportation services and travel-related expenses",
	},
	"TRAVEL": {
		"TRAVEL_FLIGHTS":      "Airlines, flight bookings, and air travel services",
		"TRAVEL_LODGING":      "Hotels, accommodations, and lodging reservations",
		"TRAVEL_RENTAL_CARS":  "Car rentals and vehicle rental services",
		"TRAVEL_OTHER_TRAVEL": "Other travel services, tours, and vacation-related expenses",
	},
}

// Valid reports whether the (primary, detailed) pair exists in the taxonomy.
func Valid(primary, detailed string) bool {
	details, ok := descriptions[primary]
	if !ok {
		return false
	}
	_, ok = details[detailed]
	return ok
}

// ValidPrimary reports whether primary is one of the 16 PFC primaries.
func ValidPrimary(primary string) bool {
	_, ok := descriptions[primary]
	return ok
}

// Primaries returns all primary categories, sorted.
func Primaries() []string {
	out := make([]string, 0, len(descriptions))
	for p := range descriptions {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Details returns all detailed categories under primary, sorted. Nil if the
// primary is unknown.
func Details(primary string) []string {
	details, ok := descriptions[primary]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(details))
	for d := range details {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Description returns the human-readable description of a detailed category,
// or a generic fallback for unknown codes.
func Description(detailed string) string {
	for _, details := range descriptions {
		if desc, ok := details[detailed]; ok {
			return desc
		}
	}
	return "Financial transaction category"
}

// PrimaryOf returns the primary category a detailed code belongs to, or "".
func PrimaryOf(detailed string) string {
	for primary, details := range descriptions {
		if _, ok := details[detailed]; ok {
			return primary
		}
	}
	return ""
}
