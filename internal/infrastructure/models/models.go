package models

// All lists every persisted model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&NormalProfile{},
		&CompanyProfile{},
		&OTPSecret{},
		&Referral{},
		&EmailOutbox{},
		&AdCategory{},
		&PropertyType{},
		&PropertyState{},
		&PropertyFeature{},
		&Property{},
		&PropertyMedia{},
		&FavoriteProperty{},
		&CompanyAgent{},
		&CompanyAvailability{},
		&ContactCompany{},
		&PromoteAdRequest{},
		&Policy{},
	}
}
