package extract

// Tables carries the keyword registries the extractor matches against.
// Injected at construction; tests substitute smaller tables.
type Tables struct {
	HousingKeywords []string
	AdminTitles     []string
	StaffIndicators []string
	NameDenyWords   []string
	MailboxMarkers  []string
	FileExtensions  []string
	RolePatterns    []string
}

// DefaultTables returns the built-in registries.
func DefaultTables() Tables {
	return Tables{
		HousingKeywords: []string{
			"housing", "residence", "residential", "dormitory", "dorm", "student housing",
			"off-campus", "residential life", "campus life", "community life", "living",
			"accommodation", "help-desk", "off-campus-housing", "hdh", "reslife",
		},
		AdminTitles: []string{
			"director", "coordinator", "manager", "administrator", "assistant",
			"associate", "supervisor", "staff", "specialist", "advisor", "counselor",
			"officer", "dean", "associate dean", "assistant director", "program coordinator",
		},
		StaffIndicators: []string{"staff", "team", "person", "contact", "directory"},
		NameDenyWords: []string{
			"equal housing", "copyright", "sign up", "signup", "contact",
			"information", "department", "university", "college", "program",
			"service", "office", "housing", "residential", "phone", "email",
			"fax", "address", "location", "hours",
		},
		MailboxMarkers: []string{"noreply", "no-reply", "donotreply", "mailer-daemon", "webmaster"},
		FileExtensions: []string{"png", "jpg", "jpeg", "gif", "pdf", "doc", "zip", "svg"},
		RolePatterns: []string{
			"building manager:", "hall director:", "community advisor:",
			"residence coordinator:", "area coordinator:", "staff contact:",
			"housing coordinator:", "resident advisor:", "building coordinator:",
		},
	}
}
