package liferay

import (
	"html"
	"regexp"
	"strings"
)

// 探测端点，均相对于以 / 结尾的目标地址
const (
	PathLogin      = "c/portal/login"
	PathHome       = "home"
	PathRoot       = ""
	PathGuestHome  = "web/guest/home"
	PathAPILiferay = "api/liferay"
	PathAPIAxis    = "api/axis"
	PathAPIJSONWS  = "api/jsonws"
	PathOpenSearch = "c/search/open_search"

	PathLegacyLogin = "web/guest/home?p_p_id=58&p_p_lifecycle=0&p_p_state=maximized&p_p_mode=view&saveLastPath=false"
	PathModernLogin = "home?p_p_id=com_liferay_login_web_portlet_LoginPortlet&p_p_lifecycle=0&p_p_state=maximized&p_p_mode=view&saveLastPath=false"

	PathLegacyCreateAccount = "web/guest/home?p_p_id=58&p_p_lifecycle=0&p_p_state=maximized&p_p_mode=view&saveLastPath=false&_58_struts_action=%2Flogin%2Fcreate_account"
	PathModernCreateAccount = "web/guest/home?p_p_id=com_liferay_login_web_portlet_LoginPortlet&p_p_lifecycle=0&p_p_state=maximized&p_p_mode=view&_com_liferay_login_web_portlet_LoginPortlet_mvcRenderCommandName=%2Flogin%2Fcreate_account&saveLastPath=false"

	PathLegacyForgotPassword = "web/guest/home?p_p_id=58&p_p_lifecycle=0&p_p_state=exclusive&p_p_mode=view&_58_struts_action=%2Flogin%2Fforgot_password"
	PathModernForgotPassword = "home?p_p_id=com_liferay_login_web_portlet_LoginPortlet&p_p_lifecycle=0&p_p_state=maximized&p_p_mode=view&_com_liferay_login_web_portlet_LoginPortlet_mvcRenderCommandName=%2Flogin%2Fforgot_password&saveLastPath=false"
)

// HeaderLiferayPortal Liferay 返回的版本响应头
const HeaderLiferayPortal = "Liferay-Portal"

var (
	richTextVersionRe    = regexp.MustCompile(`<div class="clearfix component-paragraph text-break" data-lfr-editable-id="element-text" data-lfr-editable-type="rich-text">\s*(Welcome to )?(Liferay [^<]+)\s*<`)
	welcomePostVersionRe = regexp.MustCompile(`<div class="portlet-body">\s*Welcome to (Liferay Portal [^<]+)\.\s*</div>`)
	tomcatVersionRe      = regexp.MustCompile(`>(Apache Tomcat/[0-9.]+)`)
	glassFishVersionRe   = regexp.MustCompile(`>(GlassFish Server Open Source Edition [0-9.]+)`)
	accessDeniedRe       = regexp.MustCompile(`>Access denied for ([\d.]+)<`)
	guestLanguageRe      = regexp.MustCompile(`GUEST_LANGUAGE_ID=([a-z]{2,3}_[A-Z]{2,3})`)
	legacyLoginDomainRe  = regexp.MustCompile(`name="_58_login"[^>]+type="text"\s*value="&#x40;([^"]+)"`)
	modernLoginDomainRe  = regexp.MustCompile(`name="_com_liferay_login_web_portlet_LoginPortlet_login"\s*type="text"\s*value="@([^"]+)"`)
	idpEntityIDRe        = regexp.MustCompile(`id="idpEntityId"\s+name="idpEntityId"`)
	openSearchUserRe     = regexp.MustCompile(`\[Users (?:&raquo;|») ([^\]]+)\]`)
	blogSubtitleRe       = regexp.MustCompile(`<subtitle>(.+?)</subtitle>`)
)

// HasLiferayPortalHeader Liferay-Portal 响应头以 Liferay 开头
func HasLiferayPortalHeader(value string) bool {
	return strings.HasPrefix(value, "Liferay")
}

// VersionFromHeader 响应头以 Liferay 开头且包含版本号时原样返回
func VersionFromHeader(value string) (string, bool) {
	if HasLiferayPortalHeader(value) && strings.Contains(value, ".") {
		return value, true
	}
	return "", false
}

// IsLegacyLoginLocation 旧版登录跳转（<= 6.x）
func IsLegacyLoginLocation(location string) bool {
	return strings.Contains(location, "p_p_id=58")
}

// IsModernLoginLocation 新版登录跳转（>= 7.x）
func IsModernLoginLocation(location string) bool {
	return strings.Contains(location, "p_p_id=com_liferay_login_web_portlet_LoginPortlet")
}

// HasLiferayScriptMarker 页面中包含 Liferay 全局 JS 对象
func HasLiferayScriptMarker(body string) bool {
	return strings.Contains(body, "var Liferay = Liferay || {};") || strings.Contains(body, "var Liferay = {")
}

// RichTextVersion 从 7.x 默认首页的富文本片段中提取版本
func RichTextVersion(body string) (string, bool) {
	m := richTextVersionRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[2]), true
}

// WelcomePostVersion 从 6.x 默认的 Hello World 文章中提取版本
func WelcomePostVersion(body string) (string, bool) {
	return firstGroup(welcomePostVersionRe, body)
}

// TomcatVersion 错误页中的 Tomcat 版本
func TomcatVersion(body string) (string, bool) {
	return firstGroup(tomcatVersionRe, body)
}

// GlassFishVersion 错误页中的 GlassFish 版本
func GlassFishVersion(body string) (string, bool) {
	return firstGroup(glassFishVersionRe, body)
}

// AccessDeniedAddress 错误页中回显的客户端IP，可能是中间代理的地址
func AccessDeniedAddress(body string) (string, bool) {
	return firstGroup(accessDeniedRe, body)
}

// GuestLanguage 从 Set-Cookie 中提取默认语言
func GuestLanguage(setCookie string) (string, bool) {
	return firstGroup(guestLanguageRe, setCookie)
}

// LegacyLoginDomain 旧版登录表单中预填的邮箱域名
func LegacyLoginDomain(body string) (string, bool) {
	domain, ok := firstGroup(legacyLoginDomainRe, body)
	if !ok {
		return "", false
	}
	return html.UnescapeString(domain), true
}

// ModernLoginDomain 新版登录表单中预填的邮箱域名
func ModernLoginDomain(body string) (string, bool) {
	return firstGroup(modernLoginDomainRe, body)
}

// HasModernRegistrationForm 新版注册表单
func HasModernRegistrationForm(body string) bool {
	return strings.Contains(body, "_com_liferay_login_web_portlet_LoginPortlet_firstName") &&
		strings.Contains(body, "_com_liferay_login_web_portlet_LoginPortlet_lastName")
}

// HasLegacyRegistrationForm 旧版注册表单
func HasLegacyRegistrationForm(body string) bool {
	return strings.Contains(body, "_58_firstName") && strings.Contains(body, "_58_lastName")
}

// HasSSOForm 登录页包含 SAML 请求或 IdP 选择字段
func HasSSOForm(body string) bool {
	return strings.Contains(body, `name="SAMLRequest"`) || idpEntityIDRe.MatchString(body)
}

// HasSOAPServiceList Axis 服务列表页
func HasSOAPServiceList(body string) bool {
	return strings.Contains(body, "<h2>And now... Some Services</h2>")
}

// HasJSONWSMarker JSON Web Services 接口页
func HasJSONWSMarker(body string) bool {
	return strings.Contains(body, "<title>json-web-services-api</title>") || strings.Contains(body, `"JSONWS API"`)
}

// HasForgotPassword 找回密码页
func HasForgotPassword(body string) bool {
	return strings.Contains(body, "Forgot Password")
}

// HasCaptcha 找回密码页包含验证码
func HasCaptcha(body string) bool {
	return strings.Contains(body, `id="_58_captcha"`) ||
		strings.Contains(body, `id="_com_liferay_login_web_portlet_LoginPortlet_captchaText"`) ||
		strings.Contains(body, "RecaptchaOptions")
}

// OpenSearchNames 开放搜索结果中的用户姓名，按出现顺序返回并跳过空值
func OpenSearchNames(body string) []string {
	var names []string
	for _, m := range openSearchUserRe.FindAllStringSubmatch(body, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// BlogSubtitle 博客 RSS 中的副标题，即用户全名
func BlogSubtitle(body string) (string, bool) {
	return firstGroup(blogSubtitleRe, body)
}

func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
