package service

import (
	"fmt"
	"time"

	"github.com/xuj/lcforum/internal/db"
	"github.com/xuj/lcforum/internal/mail"
)

const notifyBody = `%s,
%s 回复了您在[%s]发表的%s.

内容如下:

%s

原文地址是:
%s

您在发文时同意了接收回复通知, 所以会收到这封邮件.

%s
`

// Notifier 在回复持久化之后计算通知对象并批量发信。
// 它不参与写事务：回复已落库后才由处理器调用。
type Notifier struct {
	mailer   mail.Mailer
	siteName string
	baseURL  string
	from     string
}

// NewNotifier creates a Notifier addressing mail through the given Mailer.
func NewNotifier(mailer mail.Mailer, siteName, baseURL, from string) *Notifier {
	return &Notifier{mailer: mailer, siteName: siteName, baseURL: baseURL, from: from}
}

// NotifyReply 最多产生两封通知：父帖作者与被引用回复的作者。
// 邮箱为空的一方被跳过，另一方照常发送；全部消息作为一次批量投递。
func (n *Notifier) NotifyReply(reply *db.Reply) error {
	if reply == nil {
		return nil
	}

	notifyOP := reply.PostNode != nil && reply.PostNode.NeedNotification
	notifyCited := reply.ReplyTo != nil && reply.ReplyTo.NeedNotification
	if !notifyOP && !notifyCited {
		return nil
	}

	senderName, _ := reply.AuthorDisplay()
	postURL := n.baseURL + reply.AbsoluteURL()
	dateString := time.Now().Format("2006-01-02")

	var messages []mail.Message

	if notifyOP {
		receiverName, receiverEmail := reply.PostNode.AuthorDisplay()
		if receiverEmail != "" {
			messages = append(messages, n.compose(receiverName, receiverEmail, senderName, "文章", reply.Content, postURL, dateString))
		}
	}

	if notifyCited {
		receiverName, receiverEmail := reply.ReplyTo.AuthorDisplay()
		if receiverEmail != "" {
			messages = append(messages, n.compose(receiverName, receiverEmail, senderName, "评论", reply.Content, postURL, dateString))
		}
	}

	if len(messages) == 0 {
		return nil
	}

	return n.mailer.SendMass(messages)
}

func (n *Notifier) compose(receiverName, receiverEmail, senderName, label, content, postURL, dateString string) mail.Message {
	return mail.Message{
		Subject: fmt.Sprintf("%s, %s回应了您在[%s]的%s", receiverName, senderName, n.siteName, label),
		Body:    fmt.Sprintf(notifyBody, receiverName, senderName, n.siteName, label, content, postURL, dateString),
		From:    n.from,
		To:      []string{receiverEmail},
	}
}
