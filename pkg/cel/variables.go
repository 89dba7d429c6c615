package cel

import (
	"liferayscan/pkg/types"

	"github.com/google/cel-go/cel"
)

var stringList = cel.ListType(cel.StringType)

// VariableEnvOptions 过滤表达式中可用的变量
var VariableEnvOptions = []cel.EnvOption{
	cel.Variable("target", cel.StringType),
	cel.Variable("is_liferay", cel.BoolType),
	cel.Variable("version", cel.StringType),
	cel.Variable("language", cel.StringType),
	cel.Variable("email_domain", cel.StringType),
	cel.Variable("registration", cel.BoolType),
	cel.Variable("sso", cel.BoolType),
	cel.Variable("soap_api", cel.BoolType),
	cel.Variable("json_api", cel.BoolType),
	cel.Variable("password_reset", cel.BoolType),
	cel.Variable("captcha", cel.BoolType),
	cel.Variable("server", cel.StringType),
	cel.Variable("client_ip", cel.StringType),
	cel.Variable("title", cel.StringType),
	cel.Variable("favicon_hash", cel.StringType),
	cel.Variable("users", stringList),
	cel.Variable("portlets", stringList),
	cel.Variable("technologies", stringList),
}

// Variables 将探测结果转换为表达式变量，列表变量为空时传入空列表而不是 nil
func Variables(fp *types.Fingerprint) map[string]any {
	return map[string]any{
		"target":         fp.Target,
		"is_liferay":     fp.IsLiferay,
		"version":        fp.Version,
		"language":       fp.Language,
		"email_domain":   fp.OrganisationEmailDomain,
		"registration":   fp.UserRegistrationEnabled,
		"sso":            fp.SSOEnabled,
		"soap_api":       fp.SOAPAPIExposed,
		"json_api":       fp.JSONAPIExposed,
		"password_reset": fp.PasswordResetEnabled,
		"captcha":        fp.PasswordResetCaptchaEnabled,
		"server":         fp.ServerVersion,
		"client_ip":      fp.ClientIPDisclosed,
		"title":          fp.Title,
		"favicon_hash":   fp.FaviconHash,
		"users":          nonNil(fp.UserNames()),
		"portlets":       nonNil(fp.InstalledPortlets),
		"technologies":   nonNil(fp.Technologies),
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
