package blogservice

import (
	"github.com/sbelyaev/blogsite/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 250), "title", "must not be longer than 250 characters")
}

func validateSubtitle(v *common.Validator, subtitle string) {
	v.Check(subtitle != "", "subtitle", "must be provided")
	v.Check(v.CheckStringLength(subtitle, 1, 250), "subtitle", "must not be longer than 250 characters")
}

func validateBody(v *common.Validator, body string) {
	v.Check(body != "", "body", "must be provided")
}

func validateImgURL(v *common.Validator, imgURL string) {
	v.Check(imgURL != "", "img_url", "must be provided")
	v.Check(v.CheckURL(imgURL), "img_url", "must be a valid http or https URL")
}

func validateCommentText(v *common.Validator, text string) {
	v.Check(text != "", "text", "must be provided")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
