package discovery

// Tables carries the keyword and path registries driving discovery. They are
// immutable after construction; tests substitute smaller tables.
type Tables struct {
	HousingKeywords   []string
	ContactKeywords   []string
	LocationKeywords  []string
	SubdomainPrefixes []string
	StaffPaths        []string
	LocationPaths     []string
	SectionPrefixes   []string
}

// DefaultTables returns the built-in registries.
func DefaultTables() Tables {
	return Tables{
		HousingKeywords: []string{
			"housing", "residence", "residential", "dormitory", "dorm", "student housing",
			"off-campus", "residential life", "campus life", "community life", "living",
			"accommodation", "help-desk", "off-campus-housing", "hdh", "reslife",
		},
		ContactKeywords: []string{
			"contact us", "contact", "get in touch", "staff directory", "directory",
			"administration", "team", "staff", "communities", "residential communities",
			"housing communities", "residence halls", "meet the staff", "our team",
			"faculty staff", "leadership", "management", "personnel", "about us",
		},
		LocationKeywords: []string{
			"apartments", "residence halls", "residential areas", "communities",
			"north campus", "south campus", "east campus", "west campus",
			"graduate housing", "undergraduate housing", "family housing",
			"off-campus", "university apartments", "residential colleges",
			"living areas", "housing complexes", "dormitories", "suites",
			"residential communities", "housing communities", "residence life",
		},
		SubdomainPrefixes: []string{
			"housing", "residential", "residence", "dorms", "hdh", "reslife",
			"housing-hub", "student-housing", "studenthousing",
		},
		StaffPaths: []string{
			"/staff-directory/", "/staff-directory", "/about-us/staff-directory/",
			"/about-us/staff", "/staff/", "/staff", "/people/", "/people",
			"/team/", "/team", "/directory/", "/directory",
			"/administration/", "/administration", "/personnel/", "/contact/",
			"/our-team/", "/meet-the-staff/", "/faculty-staff/",
			"/leadership/", "/management/",
		},
		LocationPaths: []string{
			"/communities/", "/apartments/", "/residence-halls/", "/locations/",
			"/housing-areas/", "/residential-areas/", "/graduate-housing/",
			"/undergraduate-housing/", "/family-housing/", "/off-campus/",
			"/north-campus/", "/south-campus/", "/east-campus/", "/west-campus/",
			"/living/", "/dormitories/", "/suites/", "/complexes/",
		},
		SectionPrefixes: []string{"/housing", "/residential-life", "/reslife"},
	}
}

// searchQueries builds the fixed query battery for one institution; the
// site-restricted half is added only when a domain is known.
func searchQueries(name, host string) []string {
	queries := []string{
		name + " housing contact",
		name + " housing staff directory",
		name + " residential life staff",
		name + " housing administration",
		name + " housing communities staff",
		name + ` "staff directory" housing`,
		name + ` "meet the staff" housing`,
		name + " housing personnel",
	}

	if host != "" {
		queries = append(queries,
			"site:"+host+" housing staff",
			"site:"+host+` "staff directory"`,
			"site:"+host+" housing contact",
			"site:"+host+" residential staff",
			"site:"+host+" housing administration",
			"site:"+host+" housing personnel",
			"site:"+host+" housing team",
		)
	}

	return queries
}
