package domain

// Attribute names of the crew table. movieId is the partition key and
// crewRole the sort key.
const (
	AttrMovieID  = "movieId"
	AttrCrewRole = "crewRole"
)

// CrewRecord holds the crew member names for one (movie, role) pair.
// Names may already contain several comma-joined names; it is kept as stored.
type CrewRecord struct {
	MovieID  int    `dynamodbav:"movieId"`
	CrewRole string `dynamodbav:"crewRole"`
	Names    string `dynamodbav:"names"`
}
