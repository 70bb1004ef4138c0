package enums

type PortfolioKind string

const (
	PortfolioKindImage PortfolioKind = "image"
	PortfolioKindVideo PortfolioKind = "video"
	PortfolioKindLink  PortfolioKind = "link"
)
