package domain

// Cutting styles a fishmonger can prepare. The cart stores whatever value it
// is given; unknown values are displayed as their own literal label.
const (
	CuttingStyleWhole          = "WHOLE"
	CuttingStyleSliced         = "SLICED"
	CuttingStyleFilletSkin     = "FILLET_SKIN"
	CuttingStyleFilletSkinless = "FILLET_SKINLESS"
	CuttingStyleButterflied    = "BUTTERFLIED"
	CuttingStyleLengthwiseCuts = "LENGTHWISE_CUTS"
	CuttingStyleHeadTail       = "HEAD_TAIL"
	CuttingStyleGround         = "GROUND"
)

var cuttingStyleLabels = map[string]string{
	CuttingStyleWhole:          "שלם",
	CuttingStyleSliced:         "פרוסות",
	CuttingStyleFilletSkin:     "פילה עם עור",
	CuttingStyleFilletSkinless: "פילה בלי עור",
	CuttingStyleButterflied:    "פתוח",
	CuttingStyleLengthwiseCuts: "חריצים לאורך",
	CuttingStyleHeadTail:       "ראש זנב",
	CuttingStyleGround:         "טחון",
}

// CuttingStyleLabel returns the Hebrew display label for a style, falling
// back to the raw value for anything outside the known set.
func CuttingStyleLabel(style string) string {
	if label, ok := cuttingStyleLabels[style]; ok {
		return label
	}
	return style
}
