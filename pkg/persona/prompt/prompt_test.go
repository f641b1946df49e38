package prompt

import (
	"strings"
	"testing"

	"timecapsule-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestCompose_ChineseProfile(t *testing.T) {
	user := &entity.User{
		Name:     "Lee",
		Age:      26,
		Language: "zh",
		ProfileData: map[string]string{
			KeyLocation: "北京",
			KeyHobbies:  "chess",
			KeyDreams:   "成为工程师",
		},
	}

	got := Compose(user, 2024)

	assert.Contains(t, got, "# 20岁时的Lee的角色设定")
	assert.Contains(t, got, "- 姓名：Lee")
	assert.Contains(t, got, "- 当前年龄：26岁（出生于1998年）")
	assert.Contains(t, got, "- 20岁时的年份：2018年")
	assert.Contains(t, got, "- 兴趣爱好：chess")
	assert.Contains(t, got, "只讨论2018年及之前的事件和知识")
	assert.Contains(t, got, "你在北京的生活经历和背景")
}

func TestCompose_EnglishProfile(t *testing.T) {
	user := &entity.User{
		Name:     "Lee",
		Age:      26,
		Language: "en",
		ProfileData: map[string]string{
			KeyLocation:   "Boston",
			KeyOccupation: "student",
		},
	}

	got := Compose(user, 2024)

	assert.Contains(t, got, "# Character Profile for Lee at Age 20")
	assert.Contains(t, got, "- Current Age: 26 (Born in 1998)")
	assert.Contains(t, got, "- Year when 20 years old: 2018")
	assert.Contains(t, got, "- Occupational status: student")
	assert.Contains(t, got, "Only discuss events and knowledge up to 2018")
}

func TestCompose_OmitsEmptySections(t *testing.T) {
	user := &entity.User{
		Name:     "Lee",
		Language: "zh",
		ProfileData: map[string]string{
			KeyHobbies: "chess",
		},
	}

	got := Compose(user, 2024)

	assert.NotContains(t, got, "学习与工作状况")
	assert.NotContains(t, got, "重大事件")
	assert.NotContains(t, got, "当前年龄", "age 0 must not derive years")
}

func TestCompose_GuidelinePlaceholders(t *testing.T) {
	user := &entity.User{
		Name:        "Lee",
		Language:    "zh",
		ProfileData: map[string]string{KeyHobbies: "chess"},
	}

	got := Compose(user, 2024)

	assert.Contains(t, got, "当时的关注点：典型20岁年轻人的烦恼")
	assert.Contains(t, got, "对未来的期待：对未来的希望和梦想")
	assert.Contains(t, got, "只讨论你当时年及之前的事件和知识")
}

func TestCompose_NilUserFallsBackToDefault(t *testing.T) {
	got := Compose(nil, 2024)
	assert.Equal(t, Default(""), got)
	assert.True(t, strings.HasPrefix(got, "你正在模拟"))
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "你正在模拟与用户20岁时的自己进行对话。", Default("zh"))
	assert.Equal(t, "You are simulating a conversation with a 20-year-old version of the user.", Default("en"))
}
