package domain

// SeriesColumn names a plotted column of a holding report.
type SeriesColumn string

const (
	ColumnBid               SeriesColumn = "Bid Price"
	ColumnOffer             SeriesColumn = "Offer Price"
	ColumnSell              SeriesColumn = "Sell Price"
	ColumnSellFees          SeriesColumn = "Sell Price fees"
	ColumnBidCorrected      SeriesColumn = "Bid Price (corrected)"
	ColumnOfferCorrected    SeriesColumn = "Offer Price (corrected)"
	ColumnSellCorrected     SeriesColumn = "Sell Price (corrected)"
	ColumnSellFeesCorrected SeriesColumn = "Sell Price fees (corrected)"
)

// CSV header names of a price history file.
const (
	HeaderBid   = "Bid Price"
	HeaderOffer = "Offer Price"
	HeaderDate  = "Date"
)
