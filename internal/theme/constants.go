package theme

// Skin file handling
const (
	SkinFileExt = ".yaml"
	SkinDir     = "skins"

	SkinSchemaFile = "skin.schema.json"
)

// Banner formatting
const BannerAmountScale = 2

// Error messages
const (
	ErrMsgReadSkinDir   = "failed to read skin directory"
	ErrMsgReadSkinFile  = "failed to read skin file"
	ErrMsgParseSkin     = "failed to parse skin"
	ErrMsgInvalidSkin   = "invalid skin"
	ErrMsgBetRange      = "min_bet must be positive and not above max_bet"
	ErrMsgIDMismatch    = "skin id does not match file name"
	ErrMsgNoSkins       = "no skins found"
	ErrMsgDuplicateSkin = "duplicate skin id"
)
