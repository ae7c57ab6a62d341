package archive

type AddOutcome uint8

const (
	// Invalid comes with an error from Add. The archive is unchanged.
	Invalid AddOutcome = iota
	// Inserted means the point is now part of the archive.
	Inserted
	// Dominated means an archive point weakly dominates the point, equal
	// points included. The archive is unchanged.
	Dominated
	// OutOfDomain means the point does not strictly dominate the reference
	// point. The archive is unchanged.
	OutOfDomain
)

func (o AddOutcome) Added() bool {
	return o == Inserted
}

func (o AddOutcome) String() string {
	switch o {
	case Invalid:
		return "invalid"
	case Inserted:
		return "inserted"
	case Dominated:
		return "dominated"
	case OutOfDomain:
		return "out_of_domain"
	default:
	}
	return "unknown"
}
