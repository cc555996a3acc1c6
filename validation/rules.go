package validation

// The rule chains every route declares, one constructor per field contract.

func UsernameRules() *FieldRule {
	return Field("username").
		Trim().
		Length(5, 20, "Username: field must be between 5 and 20 characters.").
		Custom(ValidUsername, "Username: characters not allowed").
		Sanitize(func(value string) string { return "@" + value })
}

func NameRules() *FieldRule {
	return Field("name").
		Trim().
		Length(1, 20, "Name: field must be between 1 and 20 characters.")
}

func SignupEmailRules() *FieldRule {
	return Field("email").
		Trim().
		NotEmpty("Email: field must not be empty.").
		Email("Email: field must be a valid email.")
}

func SignupPasswordRules() *FieldRule {
	return Field("password").
		Trim().
		Length(8, 50, "Password: field must be between 8 and 50 characters.")
}

func LoginEmailRules() *FieldRule {
	return Field("email").
		Trim().
		NotEmpty("Email: must provide email.").
		Email("Email: field must be a valid email.")
}

func LoginPasswordRules() *FieldRule {
	return Field("password").
		Trim().
		NotEmpty("Password: must provide password")
}

func PostBodyRules() *FieldRule {
	return Field("body").
		Trim().
		Length(1, 500, "Post: must not be empty or exceed 500 characters.")
}

func AboutRules() *FieldRule {
	return Field("about").
		Trim().
		Length(1, 500, "About: must be between 1 and 500 characters.")
}
