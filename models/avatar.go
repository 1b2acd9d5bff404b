package models

// AvatarCustomizationImage is one selectable rendering of an avatar part:
// a background color plus full-size and preview image names.
type AvatarCustomizationImage struct {
	BackgroundColor string `json:"b"`
	FullImage       string `json:"full"`
	PreviewImage    string `json:"mid"`
}

// AvatarCustomizationOption is one selectable avatar part.
type AvatarCustomizationOption struct {
	ID       FlexString               `json:"id"`
	Selected IntBool                  `json:"selected"`
	Image    AvatarCustomizationImage `json:"image"`
}

// AvatarCustomizationType is a category of avatar parts (hair, glasses,
// background and so on).
type AvatarCustomizationType struct {
	ID    FlexString `json:"id"`
	Label string     `json:"label"`
}

// AvatarCustomization is the selectable-parts catalog for the avatar
// builder.
type AvatarCustomization struct {
	Options []AvatarCustomizationOption `json:"options"`
	Types   []AvatarCustomizationType   `json:"types"`
}
