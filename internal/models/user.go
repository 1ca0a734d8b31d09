package models

// PushToken хранится клиентом как {type: "expo", data: "ExponentPushToken[...]"}
type PushToken struct {
	Type string `firestore:"type" json:"type"`
	Data string `firestore:"data" json:"data"`
}

// User - документ users/{id}. Профиль ведет клиент, сервер меняет только счетчики.
type User struct {
	ID             string     `firestore:"-" json:"id"`
	Name           string     `firestore:"name" json:"name"`
	Email          string     `firestore:"email" json:"email"`
	Username       string     `firestore:"username" json:"username"`
	ProfilePic     string     `firestore:"profile_pic" json:"profile_pic"`
	PushToken      *PushToken `firestore:"pushToken" json:"pushToken,omitempty"`
	Tasks          int        `firestore:"tasks" json:"tasks"`
	CompletedTasks int        `firestore:"completed_tasks" json:"completed_tasks"`
}

// Token возвращает строку push-токена или "" если его нет
func (u *User) Token() string {
	if u == nil || u.PushToken == nil {
		return ""
	}
	return u.PushToken.Data
}
