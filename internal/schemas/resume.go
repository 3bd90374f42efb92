package schemas

// Resume is the reference schema for the normalized resume document.
// It doubles as the example rendered into the extraction prompt.
var Resume = buildResume()

func buildResume() *Node {
	dates := func() *Node {
		return Object(
			F("startDate", NullDefault()),
			F("endDate", NullDefault()),
		)
	}

	experience := func() *Node {
		return ArrayOf(Object(
			F("companyName", Primitive("")),
			F("companyAddress", Primitive("")),
			F("position", Primitive("")),
			F("dates", dates()),
			F("workDescription", Primitive("")),
		))
	}

	return Object(
		F("resumeTitle", Primitive("")),
		F("resumeType", Primitive("Classic")),
		F("personalDetails", Object(
			F("fullName", Primitive("")),
			F("email", Primitive("")),
			F("phone", Primitive("")),
			F("address", Primitive("")),
			F("about", Primitive("")),
			F("socials", ArrayOf(Object(
				F("name", Primitive("")),
				F("link", Primitive("")),
			))),
		)),
		F("educationDetails", ArrayOf(Object(
			F("name", Primitive("")),
			F("degree", Primitive("")),
			F("dates", dates()),
			F("location", Primitive("")),
			F("grades", Object(
				F("type", NullDefault()),
				F("score", Primitive("")),
				F("message", Primitive("")),
			)),
		))),
		F("skills", ArrayOf(Object(
			F("skillName", Primitive("")),
		))),
		F("professionalExperience", experience()),
		F("projects", ArrayOf(Object(
			F("title", Primitive("")),
			F("description", Primitive("")),
			F("extraDetails", Primitive("")),
			F("links", ArrayOf(Object(
				F("link", Primitive("")),
			))),
		))),
		F("otherExperience", experience()),
		F("certifications", ArrayOf(Object(
			F("issuingAuthority", Primitive("")),
			F("title", Primitive("")),
			F("issueDate", NullDefault()),
			F("link", Primitive("")),
		))),
	)
}
