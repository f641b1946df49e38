package prompt

import (
	"fmt"
	"strings"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/entity"
)

// Profile questionnaire keys the composer understands. Unknown keys in the
// profile map are ignored.
const (
	KeyLocation          = "location_at_20"
	KeyOccupation        = "occupation_at_20"
	KeyEducation         = "education"
	KeyMajor             = "major_at_20"
	KeyHobbies           = "hobbies_at_20"
	KeyImportantPeople   = "important_people_at_20"
	KeySignificantEvents = "significant_events_at_20"
	KeyConcerns          = "concerns_at_20"
	KeyDreams            = "dreams_at_20"
	KeyFamilyRelations   = "family_relations_at_20"
	KeyHealth            = "health_at_20"
	KeyHabits            = "habits_at_20"
	KeyRegrets           = "regrets_at_20"
	KeyBackground        = "basic_data"
	KeyPersonality       = "personality"
)

const (
	defaultPromptZh = "你正在模拟与用户20岁时的自己进行对话。"
	defaultPromptEn = "You are simulating a conversation with a 20-year-old version of the user."
)

// Default returns the bare persona instruction used when no profile exists.
func Default(language string) string {
	if language == constant.LanguageEnglish {
		return defaultPromptEn
	}
	return defaultPromptZh
}

// Compose renders the persona system prompt for a user profile. It is pure:
// currentYear is passed in so the derived birth year and year-at-20 are
// deterministic under test. Empty fields are omitted except in the role-play
// guideline section, which falls back to generic placeholders.
func Compose(user *entity.User, currentYear int) string {
	if user == nil {
		return Default("")
	}

	var birthYear, yearAt20 int
	if user.Age > 0 {
		birthYear = currentYear - user.Age
		yearAt20 = birthYear + 20
	}

	p := user.ProfileData
	if user.Language == constant.LanguageEnglish {
		return composeEnglish(user, p, birthYear, yearAt20)
	}
	return composeChinese(user, p, birthYear, yearAt20)
}

func composeChinese(user *entity.User, p map[string]string, birthYear, yearAt20 int) string {
	var b strings.Builder
	name := user.Name

	fmt.Fprintf(&b, "# 20岁时的%s的角色设定\n\n", name)

	b.WriteString("## 基本信息\n")
	if name != "" {
		fmt.Fprintf(&b, "- 姓名：%s\n", name)
	}
	if user.Age > 0 {
		fmt.Fprintf(&b, "- 当前年龄：%d岁（出生于%d年）\n", user.Age, birthYear)
		fmt.Fprintf(&b, "- 20岁时的年份：%d年\n", yearAt20)
	}
	if p[KeyLocation] != "" {
		fmt.Fprintf(&b, "- 20岁时居住地：%s\n", p[KeyLocation])
	}

	if p[KeyOccupation] != "" || p[KeyEducation] != "" || p[KeyMajor] != "" {
		b.WriteString("\n## 学习与工作状况\n")
		if p[KeyOccupation] != "" {
			fmt.Fprintf(&b, "- 职业状态：%s\n", p[KeyOccupation])
		}
		if p[KeyEducation] != "" {
			fmt.Fprintf(&b, "- 教育背景：%s\n", p[KeyEducation])
		}
		if p[KeyMajor] != "" {
			fmt.Fprintf(&b, "- 所学专业：%s\n", p[KeyMajor])
		}
	}

	b.WriteString("\n## 个人生活\n")
	if p[KeyHobbies] != "" {
		fmt.Fprintf(&b, "- 兴趣爱好：%s\n", p[KeyHobbies])
	}
	if p[KeyImportantPeople] != "" {
		fmt.Fprintf(&b, "- 重要的人：%s\n", p[KeyImportantPeople])
	}
	if p[KeyFamilyRelations] != "" {
		fmt.Fprintf(&b, "- 家庭关系：%s\n", p[KeyFamilyRelations])
	}
	if p[KeyHealth] != "" {
		fmt.Fprintf(&b, "- 健康状况：%s\n", p[KeyHealth])
	}
	if p[KeyHabits] != "" {
		fmt.Fprintf(&b, "- 生活习惯：%s\n", p[KeyHabits])
	}

	if p[KeyPersonality] != "" || p[KeyConcerns] != "" || p[KeyDreams] != "" {
		b.WriteString("\n## 心理状态与想法\n")
		if p[KeyPersonality] != "" {
			fmt.Fprintf(&b, "- 性格特点：%s\n", p[KeyPersonality])
		}
		if p[KeyConcerns] != "" {
			fmt.Fprintf(&b, "- 烦恼与努力方向：%s\n", p[KeyConcerns])
		}
		if p[KeyDreams] != "" {
			fmt.Fprintf(&b, "- 对未来的期待和梦想：%s\n", p[KeyDreams])
		}
		if p[KeyRegrets] != "" {
			fmt.Fprintf(&b, "- 可能的遗憾或想对自己说的话：%s\n", p[KeyRegrets])
		}
	}

	if p[KeySignificantEvents] != "" {
		b.WriteString("\n## 重大事件\n")
		fmt.Fprintf(&b, "%s\n", p[KeySignificantEvents])
	}

	if p[KeyBackground] != "" {
		b.WriteString("\n## 其他背景信息\n")
		fmt.Fprintf(&b, "%s\n", p[KeyBackground])
	}

	b.WriteString("\n## 角色扮演指南\n")
	yearRef := "你当时"
	if yearAt20 > 0 {
		yearRef = fmt.Sprintf("%d", yearAt20)
	}
	concerns := orDefault(p[KeyConcerns], "典型20岁年轻人的烦恼")
	dreams := orDefault(p[KeyDreams], "对未来的希望和梦想")
	people := orDefault(p[KeyImportantPeople], "朋友、家人和其他重要的人")
	location := orDefault(p[KeyLocation], "你生活的地方")
	fmt.Fprintf(&b, `作为20岁的%s，你应该：
1. 以一个20岁年轻人的语气和思维方式来回应
2. 只讨论%s年及之前的事件和知识
3. 不要提及未来（对你来说尚未发生）的事情
4. 表现出20岁时的价值观和世界观，特别考虑以下因素：
   - 当时的关注点：%s
   - 对未来的期待：%s
   - 重要的人际关系：%s
5. 如果被问及未来的事情，你可以表达你对未来的期望，但不应该知道实际发生了什么
6. 你的对话应该反映出你在%s的生活经历和背景`, name, yearRef, concerns, dreams, people, location)

	return b.String()
}

func composeEnglish(user *entity.User, p map[string]string, birthYear, yearAt20 int) string {
	var b strings.Builder
	name := user.Name

	fmt.Fprintf(&b, "# Character Profile for %s at Age 20\n\n", name)

	b.WriteString("## Basic Information\n")
	if name != "" {
		fmt.Fprintf(&b, "- Name: %s\n", name)
	}
	if user.Age > 0 {
		fmt.Fprintf(&b, "- Current Age: %d (Born in %d)\n", user.Age, birthYear)
		fmt.Fprintf(&b, "- Year when 20 years old: %d\n", yearAt20)
	}
	if p[KeyLocation] != "" {
		fmt.Fprintf(&b, "- Location at age 20: %s\n", p[KeyLocation])
	}

	if p[KeyOccupation] != "" || p[KeyEducation] != "" || p[KeyMajor] != "" {
		b.WriteString("\n## Education & Occupation\n")
		if p[KeyOccupation] != "" {
			fmt.Fprintf(&b, "- Occupational status: %s\n", p[KeyOccupation])
		}
		if p[KeyEducation] != "" {
			fmt.Fprintf(&b, "- Educational background: %s\n", p[KeyEducation])
		}
		if p[KeyMajor] != "" {
			fmt.Fprintf(&b, "- Field of study: %s\n", p[KeyMajor])
		}
	}

	b.WriteString("\n## Personal Life\n")
	if p[KeyHobbies] != "" {
		fmt.Fprintf(&b, "- Hobbies and interests: %s\n", p[KeyHobbies])
	}
	if p[KeyImportantPeople] != "" {
		fmt.Fprintf(&b, "- Important people: %s\n", p[KeyImportantPeople])
	}
	if p[KeyFamilyRelations] != "" {
		fmt.Fprintf(&b, "- Family relationships: %s\n", p[KeyFamilyRelations])
	}
	if p[KeyHealth] != "" {
		fmt.Fprintf(&b, "- Health status: %s\n", p[KeyHealth])
	}
	if p[KeyHabits] != "" {
		fmt.Fprintf(&b, "- Lifestyle habits: %s\n", p[KeyHabits])
	}

	if p[KeyPersonality] != "" || p[KeyConcerns] != "" || p[KeyDreams] != "" {
		b.WriteString("\n## Mental State & Thoughts\n")
		if p[KeyPersonality] != "" {
			fmt.Fprintf(&b, "- Personality traits: %s\n", p[KeyPersonality])
		}
		if p[KeyConcerns] != "" {
			fmt.Fprintf(&b, "- Concerns and efforts: %s\n", p[KeyConcerns])
		}
		if p[KeyDreams] != "" {
			fmt.Fprintf(&b, "- Expectations and dreams for the future: %s\n", p[KeyDreams])
		}
		if p[KeyRegrets] != "" {
			fmt.Fprintf(&b, "- Possible regrets or advice to self: %s\n", p[KeyRegrets])
		}
	}

	if p[KeySignificantEvents] != "" {
		b.WriteString("\n## Significant Events\n")
		fmt.Fprintf(&b, "%s\n", p[KeySignificantEvents])
	}

	if p[KeyBackground] != "" {
		b.WriteString("\n## Additional Background\n")
		fmt.Fprintf(&b, "%s\n", p[KeyBackground])
	}

	b.WriteString("\n## Role-Playing Guidelines\n")
	yearRef := "your time"
	if yearAt20 > 0 {
		yearRef = fmt.Sprintf("%d", yearAt20)
	}
	concerns := orDefault(p[KeyConcerns], "typical concerns of a 20-year-old")
	dreams := orDefault(p[KeyDreams], "hopes and dreams for the future")
	people := orDefault(p[KeyImportantPeople], "friends, family, and other important people")
	location := orDefault(p[KeyLocation], "where you lived")
	fmt.Fprintf(&b, `As %s at age 20, you should:
1. Respond with the tone and mindset of a 20-year-old
2. Only discuss events and knowledge up to %s
3. Don't mention future events (things that haven't happened for you yet)
4. Reflect the values and worldview you had at 20, especially considering:
   - Your concerns at the time: %s
   - Your expectations for the future: %s
   - Important relationships: %s
5. If asked about future events, you may express your hopes for the future, but should not know what actually happened
6. Your conversation should reflect your experiences and background in %s`, name, yearRef, concerns, dreams, people, location)

	return b.String()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
