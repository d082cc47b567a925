package domain

// CategoryStyle describes how a category is presented on the site.
type CategoryStyle struct {
	Label    string `json:"label"`
	Badge    string `json:"badge"`
	Gradient string `json:"gradient"`
	Accent   string `json:"accent"`
}

// FallbackStyle is used for values outside the known categories.
var FallbackStyle = CategoryStyle{
	Label:    "其他",
	Badge:    "bg-gray-100 text-gray-700",
	Gradient: "from-gray-600 to-gray-700",
	Accent:   "text-gray-600",
}

// StyleFor returns the presentation of t. The switch is exhaustive over
// ContentTypes; ok is false when t is not a known category.
func StyleFor(t ContentType) (CategoryStyle, bool) {
	switch t {
	case ContentTypeSEO:
		return CategoryStyle{
			Label:    "SEO服务",
			Badge:    "bg-blue-100 text-blue-700",
			Gradient: "from-blue-600 to-purple-600",
			Accent:   "text-blue-600",
		}, true
	case ContentTypeGEO:
		return CategoryStyle{
			Label:    "GEO服务",
			Badge:    "bg-green-100 text-green-700",
			Gradient: "from-green-600 to-teal-600",
			Accent:   "text-green-600",
		}, true
	case ContentTypeSocial:
		return CategoryStyle{
			Label:    "社媒服务",
			Badge:    "bg-purple-100 text-purple-700",
			Gradient: "from-purple-600 to-pink-600",
			Accent:   "text-purple-600",
		}, true
	default:
		return FallbackStyle, false
	}
}
