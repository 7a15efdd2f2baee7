package reqrestest

import (
	"fmt"

	"calc-harness/internal/reqres"
)

// Token is the token the service hands out for every successful register
// and login.
const Token = "QpwL5tke4Pnpja7X4"

// MsgUndefinedUser is returned when registering an email that is not one of
// the seeded users.
const MsgUndefinedUser = "Note: Only defined users succeed registration"

// DefaultSupport is the support block returned with every single-user
// response.
var DefaultSupport = reqres.Support{
	URL:  "https://contentcaddy.io?utm_source=reqres&utm_medium=json&utm_campaign=referral",
	Text: "Tired of writing endless social media content? Let Content Caddy generate it for you.",
}

// DefaultUsers are the twelve demo users of the service.
var DefaultUsers = []reqres.User{
	seedUser(1, "george.bluth", "George", "Bluth"),
	seedUser(2, "janet.weaver", "Janet", "Weaver"),
	seedUser(3, "emma.wong", "Emma", "Wong"),
	seedUser(4, "eve.holt", "Eve", "Holt"),
	seedUser(5, "charles.morris", "Charles", "Morris"),
	seedUser(6, "tracey.ramos", "Tracey", "Ramos"),
	seedUser(7, "michael.lawson", "Michael", "Lawson"),
	seedUser(8, "lindsay.ferguson", "Lindsay", "Ferguson"),
	seedUser(9, "tobias.funke", "Tobias", "Funke"),
	seedUser(10, "byron.fields", "Byron", "Fields"),
	seedUser(11, "george.edwards", "George", "Edwards"),
	seedUser(12, "rachel.howell", "Rachel", "Howell"),
}

func seedUser(id int, local, first, last string) reqres.User {
	return reqres.User{
		ID:        id,
		Email:     local + "@reqres.in",
		FirstName: first,
		LastName:  last,
		Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
	}
}
